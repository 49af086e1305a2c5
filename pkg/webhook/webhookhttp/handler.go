// Package webhookhttp mounts a webhook.Gateway on any net/http router.
//
//	gw, _ := webhook.New(cfg)
//	mux.Handle("/webhook", webhookhttp.Handler(gw))
//
// The handler reads the origin and signature headers and the exact request
// body, runs the gateway and writes its reply: plain text for status
// replies, JSON for the handshake.
package webhookhttp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

// DefaultMaxBodyBytes caps the body read when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20 // 1 MB

// Replies for requests refused before the gateway runs.
const (
	BodyMethodNotAllowed = "405 METHOD_NOT_ALLOWED"
	BodyTooLarge         = "413 PAYLOAD_TOO_LARGE"
	BodyBadRequest       = "400 BAD_REQUEST"
)

var (
	// ErrBodyTooLarge is reported when the body exceeds the configured cap.
	ErrBodyTooLarge = errors.New("webhookhttp: request body too large")
	// ErrBodyUnreadable is reported when the body could not be read.
	ErrBodyUnreadable = errors.New("webhookhttp: request body unreadable")
)

// ResultFunc is called once per POST after the reply is decided and before
// it is written. For requests refused before the gateway ran, res.Outcome is
// zero and res.Err is ErrBodyTooLarge or ErrBodyUnreadable.
type ResultFunc func(r *http.Request, req webhook.Request, res webhook.Result)

// Option configures the handler.
type Option func(*handler)

// WithOriginHeader overrides the header carrying the source address.
func WithOriginHeader(h string) Option {
	return func(hd *handler) {
		if h != "" {
			hd.originHeader = h
		}
	}
}

// WithSignatureHeader overrides the header carrying the signature.
func WithSignatureHeader(h string) Option {
	return func(hd *handler) {
		if h != "" {
			hd.signatureHeader = h
		}
	}
}

// WithMaxBodyBytes caps the number of body bytes read. Non-positive values
// keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(hd *handler) {
		if n > 0 {
			hd.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger for requests refused before the gateway runs.
func WithLogger(logger *slog.Logger) Option {
	return func(hd *handler) {
		if logger != nil {
			hd.logger = logger
		}
	}
}

// WithResultFunc registers fn to see every answered POST.
func WithResultFunc(fn ResultFunc) Option {
	return func(hd *handler) {
		hd.onResult = fn
	}
}

type handler struct {
	gateway         *webhook.Gateway
	originHeader    string
	signatureHeader string
	maxBodyBytes    int64
	logger          *slog.Logger
	onResult        ResultFunc
}

// Handler returns an http.Handler that feeds POST requests to gw. Other
// methods are answered 405 without touching the gateway.
func Handler(gw *webhook.Gateway, opts ...Option) http.Handler {
	hd := &handler{
		gateway:         gw,
		originHeader:    webhook.DefaultOriginHeader,
		signatureHeader: webhook.DefaultSignatureHeader,
		maxBodyBytes:    DefaultMaxBodyBytes,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(hd)
	}
	return hd
}

func (hd *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, BodyMethodNotAllowed)
		return
	}

	req, err := hd.readRequest(r)
	if err != nil {
		res := refusal(err)
		hd.logger.Warn("webhook body refused", "error", err, "origin", req.Origin, "status", res.StatusCode)
		hd.report(r, req, res)
		writeText(w, res.StatusCode, res.Body)
		return
	}

	res := hd.gateway.Process(req)
	hd.report(r, req, res)

	if res.Outcome == webhook.OutcomeHandshake {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(res.StatusCode)
		_, _ = io.WriteString(w, res.Body)
		return
	}
	writeText(w, res.StatusCode, res.Body)
}

// readRequest leaves the body exactly as sent: signature verification needs
// the original bytes. Missing headers come through empty so the gateway can
// answer with its own status.
func (hd *handler) readRequest(r *http.Request) (webhook.Request, error) {
	req := webhook.Request{
		Origin:    r.Header.Get(hd.originHeader),
		Signature: r.Header.Get(hd.signatureHeader),
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, hd.maxBodyBytes+1))
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrBodyUnreadable, err)
	}
	if int64(len(body)) > hd.maxBodyBytes {
		return req, fmt.Errorf("%w: exceeds %d byte limit", ErrBodyTooLarge, hd.maxBodyBytes)
	}
	req.Body = body
	return req, nil
}

func (hd *handler) report(r *http.Request, req webhook.Request, res webhook.Result) {
	if hd.onResult != nil {
		hd.onResult(r, req, res)
	}
}

func refusal(err error) webhook.Result {
	res := webhook.Result{
		Rejected:   true,
		StatusCode: http.StatusBadRequest,
		Body:       BodyBadRequest,
		Err:        err,
	}
	if errors.Is(err, ErrBodyTooLarge) {
		res.StatusCode = http.StatusRequestEntityTooLarge
		res.Body = BodyTooLarge
	}
	return res
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
