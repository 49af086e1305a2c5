package webhook

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Request is one inbound callback as seen by the pipeline.
type Request struct {
	// Origin is the source address reported by the HTTP layer.
	Origin string
	// Signature is the value of the signature header.
	Signature string
	// Body is the exact, unmodified request body.
	Body []byte
}

// Result is the response the HTTP layer should send back.
type Result struct {
	Rejected   bool
	StatusCode int
	Body       string

	// Outcome and Envelope are set for diagnostics; Envelope is nil when the
	// request was rejected before classification.
	Outcome  Outcome
	Envelope *Envelope
	// Err is the rejection cause, nil on success.
	Err error
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObserver adds an observer. It can be given more than once.
func WithObserver(o Observer) Option {
	return func(g *Gateway) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// Gateway authenticates, classifies and dispatches Tebex webhooks. Each
// Gateway owns its subscribers; instances share no state.
type Gateway struct {
	cfg        Config
	guard      originGuard
	dispatcher *Dispatcher
	logger     *slog.Logger
	observers  Observers
	now        func() time.Time
}

// New builds a Gateway. It fails with ErrMissingSecret when cfg has no secret.
func New(cfg Config, opts ...Option) (*Gateway, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	g := &Gateway{
		cfg:    cfg.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.guard = newOriginGuard(g.cfg.AllowedOrigins)
	g.dispatcher = NewDispatcher(append(Observers{logObserver{g.logger}}, g.observers...))
	g.logger.Debug("webhook gateway ready", "config", g.cfg)
	return g, nil
}

// EndpointPath returns the path the HTTP layer should mount the gateway on.
func (g *Gateway) EndpointPath() string {
	return g.cfg.EndpointPath
}

// AllowedOrigins returns a copy of the allow-list.
func (g *Gateway) AllowedOrigins() []string {
	return append([]string(nil), g.cfg.AllowedOrigins...)
}

// Subscribe registers cb for kind. Subscriptions take effect for every
// request processed after the call returns.
func (g *Gateway) Subscribe(kind EventKind, cb Callback) error {
	return g.dispatcher.Subscribe(kind, cb)
}

// SubscribeAll registers cb for every deliverable kind.
func (g *Gateway) SubscribeAll(cb Callback) error {
	for _, kind := range AllEventKinds() {
		if !kind.Deliverable() {
			continue
		}
		if err := g.Subscribe(kind, cb); err != nil {
			return err
		}
	}
	return nil
}

// Subscribers returns the number of callbacks registered for kind.
func (g *Gateway) Subscribers(kind EventKind) int {
	return g.dispatcher.Count(kind)
}

// Process runs one request through the pipeline:
// origin check, signature check, classification, then either the
// handshake reply or dispatch. The first failing stage ends the run.
func (g *Gateway) Process(req Request) Result {
	start := g.now()
	res := g.process(req)
	kind := KindUnknown
	if res.Envelope != nil {
		kind = res.Envelope.Kind
	}
	g.observers.Processed(res.Outcome, kind, g.now().Sub(start))
	return res
}

func (g *Gateway) process(req Request) Result {
	if err := g.guard.check(req); err != nil {
		return g.reject(req, err)
	}
	if err := verifySignature(g.cfg.Secret, req); err != nil {
		return g.reject(req, err)
	}
	env, err := Classify(req.Body)
	if err != nil {
		return g.reject(req, err)
	}

	if env.IsHandshake() {
		g.logger.Info("webhook handshake", "id", env.ID)
		return Result{
			StatusCode: http.StatusOK,
			Body:       handshakeBody(env.ID),
			Outcome:    OutcomeHandshake,
			Envelope:   env,
		}
	}

	n := g.dispatcher.Dispatch(env, req.Body)
	if env.Kind == KindUnknown {
		g.logger.Warn("webhook type not recognized", "id", env.ID, "type", env.Type)
	} else {
		g.logger.Debug("webhook dispatched", "id", env.ID, "type", env.Type, "subscribers", n)
	}
	return Result{
		StatusCode: http.StatusOK,
		Body:       statusBody(http.StatusOK, TextCodeOK),
		Outcome:    OutcomeDispatched,
		Envelope:   env,
	}
}

func (g *Gateway) reject(req Request, err error) Result {
	res := rejection(err)
	res.Outcome = outcomeFor(err)
	g.logger.Warn("webhook rejected",
		"reason", res.Outcome.String(),
		"origin", req.Origin,
		"status", res.StatusCode,
	)
	return res
}

func outcomeFor(err error) Outcome {
	// Sentinels are compared by identity: the two 401 errors share a
	// category and text code.
	switch err {
	case ErrOriginRejected:
		return OutcomeOriginRejected
	case ErrSignatureRejected:
		return OutcomeSignatureRejected
	case ErrParseFailure:
		return OutcomeParseFailure
	default:
		return OutcomeInputMissing
	}
}

func statusBody(code int, text string) string {
	return fmt.Sprintf("%d %s", code, text)
}
