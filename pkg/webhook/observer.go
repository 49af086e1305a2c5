package webhook

import (
	"log/slog"
	"time"
)

// Outcome is the terminal state of one pipeline run.
type Outcome uint8

const (
	OutcomeInputMissing Outcome = iota + 1
	OutcomeOriginRejected
	OutcomeSignatureRejected
	OutcomeParseFailure
	OutcomeHandshake
	OutcomeDispatched
)

var outcomeNames = [...]string{
	OutcomeInputMissing:      "input_missing",
	OutcomeOriginRejected:    "origin_rejected",
	OutcomeSignatureRejected: "signature_rejected",
	OutcomeParseFailure:      "parse_failure",
	OutcomeHandshake:         "handshake",
	OutcomeDispatched:        "dispatched",
}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) || outcomeNames[o] == "" {
		return "unknown"
	}
	return outcomeNames[o]
}

// Observer receives pipeline events. Implementations must be safe for
// concurrent use; they run on the request goroutine.
type Observer interface {
	// Processed is called once per request after the response is decided.
	// kind is KindUnknown when the request was rejected before classification.
	Processed(outcome Outcome, kind EventKind, elapsed time.Duration)
	// CallbackFailed is called when a subscriber returns an error or panics.
	CallbackFailed(kind EventKind, index int, err error)
}

type nopObserver struct{}

func (nopObserver) Processed(Outcome, EventKind, time.Duration) {}
func (nopObserver) CallbackFailed(EventKind, int, error)        {}

// Observers fans out to several observers in order.
type Observers []Observer

func (obs Observers) Processed(outcome Outcome, kind EventKind, elapsed time.Duration) {
	for _, o := range obs {
		o.Processed(outcome, kind, elapsed)
	}
}

func (obs Observers) CallbackFailed(kind EventKind, index int, err error) {
	for _, o := range obs {
		o.CallbackFailed(kind, index, err)
	}
}

// logObserver logs subscriber failures; the dispatcher has no logger of its own.
type logObserver struct {
	logger *slog.Logger
}

func (logObserver) Processed(Outcome, EventKind, time.Duration) {}

func (l logObserver) CallbackFailed(kind EventKind, index int, err error) {
	l.logger.Error("webhook subscriber failed", "type", kind.String(), "subscriber", index, "error", err)
}
