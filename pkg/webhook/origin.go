package webhook

// originGuard holds the allow-listed source addresses as a set.
type originGuard struct {
	allowed map[string]struct{}
}

func newOriginGuard(origins []string) originGuard {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return originGuard{allowed: allowed}
}

// check validates presence of all request inputs first, then membership of
// the origin. Matching is exact: no CIDR ranges, no header list splitting.
func (g originGuard) check(req Request) error {
	if req.Origin == "" || req.Signature == "" || len(req.Body) == 0 {
		return ErrInputMissing
	}
	if _, ok := g.allowed[req.Origin]; !ok {
		return ErrOriginRejected
	}
	return nil
}

