// Package subscriber holds the built-in subscribers the gateway process
// registers when run standalone.
package subscriber

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

// Logger logs every delivered event. It never logs customer details beyond
// the transaction reference.
type Logger struct {
	Logger *slog.Logger
}

// Register subscribes l to every deliverable kind on gw.
func (l *Logger) Register(gw *webhook.Gateway) error {
	if err := gw.SubscribeAll(l.Handle); err != nil {
		return fmt.Errorf("registering log subscriber: %w", err)
	}
	return nil
}

// Handle is a webhook.Callback. Callbacks receive only the subject, so the
// raw body is decoded a second time here for the envelope id and type. That
// is one extra envelope parse per delivered event.
func (l *Logger) Handle(subject webhook.Subject, rawBody []byte) error {
	env, err := webhook.Classify(rawBody)
	if err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}

	attrs := []any{
		"event_id", env.ID,
		"type", env.Type,
		"subject_bytes", len(subject),
	}

	switch {
	case len(subject) == 0:
	case strings.HasPrefix(env.Type, "payment."):
		var p webhook.PaymentSubject
		if err := env.Decode(&p); err != nil {
			return fmt.Errorf("decoding payment subject: %w", err)
		}
		attrs = append(attrs,
			"transaction_id", p.TransactionID,
			"status", p.Status.Description,
			"amount", p.Price.Amount,
			"currency", p.Price.Currency,
			"products", len(p.Products),
		)
	case strings.HasPrefix(env.Type, "recurring-payment."):
		var r webhook.RecurringPaymentSubject
		if err := env.Decode(&r); err != nil {
			return fmt.Errorf("decoding recurring payment subject: %w", err)
		}
		attrs = append(attrs,
			"reference", r.Reference,
			"status", r.Status.Description,
			"fail_count", r.FailCount,
		)
	}

	l.Logger.Info("tebex event received", attrs...)
	return nil
}
