package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Subject is the event-specific payload of an envelope. Its shape depends on
// the envelope kind; decode it with Envelope.Decode or json.Unmarshal.
type Subject = json.RawMessage

// Envelope is the parsed webhook body.
type Envelope struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Kind    EventKind `json:"-"`
	Subject Subject   `json:"subject"`
}

// Decode unmarshals the subject into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Subject) == 0 {
		return fmt.Errorf("webhook: envelope %s has no subject", e.ID)
	}
	if err := json.Unmarshal(e.Subject, v); err != nil {
		return fmt.Errorf("webhook: decoding %s subject: %w", e.Type, err)
	}
	return nil
}

// IsHandshake reports whether the envelope is the endpoint validation probe.
func (e *Envelope) IsHandshake() bool {
	return e.Kind == KindValidation
}

// Classify parses body into an Envelope. It fails with ErrParseFailure when
// the body is not a JSON object or has no type field.
func Classify(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ErrParseFailure
	}
	if env.Type == "" {
		return nil, ErrParseFailure
	}
	env.Kind, _ = ParseEventKind(env.Type)
	if isNull(env.Subject) {
		env.Subject = nil
	}
	return &env, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// handshakeBody is the reply that proves endpoint ownership. An envelope
// without an id is answered with an empty object.
func handshakeBody(id string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(struct {
		ID string `json:"id,omitempty"`
	}{ID: id})
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
