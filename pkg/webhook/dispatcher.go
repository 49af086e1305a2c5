package webhook

import (
	"fmt"
	"sync"
)

// Callback handles one delivered event. subject is the envelope subject and
// rawBody the exact bytes that were signed. A returned error is reported to
// the Observer; it does not affect the response sent to the platform.
type Callback func(subject Subject, rawBody []byte) error

// Dispatcher keeps per-kind subscriber lists and invokes them in insertion
// order. It is safe for concurrent use.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers [numKinds][]Callback

	observer Observer
}

// NewDispatcher returns an empty dispatcher reporting failures to observer.
// A nil observer discards them.
func NewDispatcher(observer Observer) *Dispatcher {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Dispatcher{observer: observer}
}

// Subscribe appends cb to the list for kind. Subscribing to the handshake or
// unknown kind is an error because those are never dispatched.
func (d *Dispatcher) Subscribe(kind EventKind, cb Callback) error {
	if cb == nil {
		return fmt.Errorf("webhook: nil callback for %s", kind)
	}
	if !kind.Deliverable() {
		return fmt.Errorf("webhook: %s events are not delivered to subscribers", kind)
	}
	d.mu.Lock()
	d.subscribers[kind] = append(d.subscribers[kind], cb)
	d.mu.Unlock()
	return nil
}

// Count returns the number of subscribers for kind.
func (d *Dispatcher) Count(kind EventKind) int {
	if kind >= numKinds {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[kind])
}

// Dispatch invokes every subscriber of env.Kind with the subject and raw body
// and returns how many ran. Handshake and unknown kinds are never dispatched.
// A failing or panicking subscriber does not stop the ones after it.
func (d *Dispatcher) Dispatch(env *Envelope, rawBody []byte) int {
	if !env.Kind.Deliverable() {
		return 0
	}

	// Snapshot under the read lock so callbacks run without holding it.
	d.mu.RLock()
	cbs := d.subscribers[env.Kind]
	d.mu.RUnlock()

	for i, cb := range cbs {
		if err := invoke(cb, env.Subject, rawBody); err != nil {
			d.observer.CallbackFailed(env.Kind, i, err)
		}
	}
	return len(cbs)
}

func invoke(cb Callback, subject Subject, rawBody []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webhook: subscriber panic: %v", rec)
		}
	}()
	return cb(subject, rawBody)
}
