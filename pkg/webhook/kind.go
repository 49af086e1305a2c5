package webhook

import "fmt"

// EventKind identifies a Tebex webhook type. The set is closed: it mirrors the
// upstream platform's published webhook types exactly.
type EventKind uint8

const (
	// KindUnknown is the zero value, used for type strings the platform may add later.
	KindUnknown EventKind = iota
	KindPaymentCompleted
	KindPaymentDeclined
	KindPaymentRefunded
	KindPaymentDisputeOpened
	KindPaymentDisputeWon
	KindPaymentDisputeLost
	KindPaymentDisputeClosed
	KindRecurringPaymentStarted
	KindRecurringPaymentRenewed
	KindRecurringPaymentEnded
	KindRecurringPaymentCancellationRequested
	KindRecurringPaymentCancellationAborted
	// KindValidation is the endpoint ownership probe. It is answered by the
	// gateway and never delivered to subscribers.
	KindValidation

	numKinds
)

var kindNames = [...]string{
	KindUnknown:                               "unknown",
	KindPaymentCompleted:                      "payment.completed",
	KindPaymentDeclined:                       "payment.declined",
	KindPaymentRefunded:                       "payment.refunded",
	KindPaymentDisputeOpened:                  "payment.dispute.opened",
	KindPaymentDisputeWon:                     "payment.dispute.won",
	KindPaymentDisputeLost:                    "payment.dispute.lost",
	KindPaymentDisputeClosed:                  "payment.dispute.closed",
	KindRecurringPaymentStarted:               "recurring-payment.started",
	KindRecurringPaymentRenewed:               "recurring-payment.renewed",
	KindRecurringPaymentEnded:                 "recurring-payment.ended",
	KindRecurringPaymentCancellationRequested: "recurring-payment.cancellation.requested",
	KindRecurringPaymentCancellationAborted:   "recurring-payment.cancellation.aborted",
	KindValidation:                            "validation.webhook",
}

// Adding a kind without a wire name fails to compile.
var _ = [1]struct{}{}[len(kindNames)-int(numKinds)]

var kindsByName = func() map[string]EventKind {
	m := make(map[string]EventKind, numKinds)
	for k := KindUnknown + 1; k < numKinds; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the wire name of the kind.
func (k EventKind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the recognized kinds, handshake included.
func (k EventKind) Valid() bool {
	return k > KindUnknown && k < numKinds
}

// Deliverable reports whether subscribers can receive events of kind k.
func (k EventKind) Deliverable() bool {
	return k.Valid() && k != KindValidation
}

// ParseEventKind maps a wire name to its kind. Unrecognized names return
// KindUnknown and false.
func ParseEventKind(s string) (EventKind, bool) {
	k, ok := kindsByName[s]
	return k, ok
}

// AllEventKinds returns every recognized kind in declaration order, the
// handshake kind last.
func AllEventKinds() []EventKind {
	out := make([]EventKind, 0, numKinds-1)
	for k := KindUnknown + 1; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// KindUnknown without error.
func (k *EventKind) UnmarshalText(b []byte) error {
	*k, _ = ParseEventKind(string(b))
	return nil
}
