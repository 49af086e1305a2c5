package webhook

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failure struct {
	kind  EventKind
	index int
	err   error
}

// recordingObserver captures observer calls for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	processed []Outcome
	kinds     []EventKind
	failures  []failure
}

func (r *recordingObserver) Processed(outcome Outcome, kind EventKind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, outcome)
	r.kinds = append(r.kinds, kind)
}

func (r *recordingObserver) CallbackFailed(kind EventKind, index int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{kind, index, err})
}

func TestDispatcherInsertionOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []int
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Subscribe(KindPaymentRefunded, func(Subject, []byte) error {
			order = append(order, i)
			return nil
		}))
	}

	n := d.Dispatch(&Envelope{Kind: KindPaymentRefunded}, []byte("raw"))
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatcherOnlyMatchingKind(t *testing.T) {
	d := NewDispatcher(nil)
	var hits int
	require.NoError(t, d.Subscribe(KindPaymentDeclined, func(Subject, []byte) error {
		hits++
		return nil
	}))

	assert.Equal(t, 0, d.Dispatch(&Envelope{Kind: KindPaymentCompleted}, nil))
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, d.Dispatch(&Envelope{Kind: KindPaymentDeclined}, nil))
	assert.Equal(t, 1, hits)
}

func TestDispatcherSkipsUndeliverableKinds(t *testing.T) {
	d := NewDispatcher(nil)
	assert.Error(t, d.Subscribe(KindValidation, func(Subject, []byte) error { return nil }))
	assert.Error(t, d.Subscribe(KindUnknown, func(Subject, []byte) error { return nil }))
	assert.Error(t, d.Subscribe(EventKind(99), func(Subject, []byte) error { return nil }))
	assert.Error(t, d.Subscribe(KindPaymentCompleted, nil))

	assert.Equal(t, 0, d.Dispatch(&Envelope{Kind: KindValidation}, nil))
	assert.Equal(t, 0, d.Dispatch(&Envelope{Kind: KindUnknown}, nil))
	assert.Equal(t, 0, d.Count(KindPaymentCompleted))
	assert.Equal(t, 0, d.Count(EventKind(99)))
}

func TestDispatcherNoDeduplication(t *testing.T) {
	d := NewDispatcher(nil)
	var hits int
	cb := func(Subject, []byte) error { hits++; return nil }
	require.NoError(t, d.Subscribe(KindPaymentCompleted, cb))
	require.NoError(t, d.Subscribe(KindPaymentCompleted, cb))

	d.Dispatch(&Envelope{Kind: KindPaymentCompleted}, nil)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 2, d.Count(KindPaymentCompleted))
}

func TestDispatcherIsolatesFailures(t *testing.T) {
	obs := &recordingObserver{}
	d := NewDispatcher(obs)

	var ran []string
	require.NoError(t, d.Subscribe(KindPaymentDisputeOpened, func(Subject, []byte) error {
		ran = append(ran, "first")
		return errors.New("boom")
	}))
	require.NoError(t, d.Subscribe(KindPaymentDisputeOpened, func(Subject, []byte) error {
		ran = append(ran, "second")
		panic("kaboom")
	}))
	require.NoError(t, d.Subscribe(KindPaymentDisputeOpened, func(Subject, []byte) error {
		ran = append(ran, "third")
		return nil
	}))

	n := d.Dispatch(&Envelope{Kind: KindPaymentDisputeOpened}, nil)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"first", "second", "third"}, ran)

	require.Len(t, obs.failures, 2)
	assert.Equal(t, 0, obs.failures[0].index)
	assert.EqualError(t, obs.failures[0].err, "boom")
	assert.Equal(t, 1, obs.failures[1].index)
	assert.Equal(t, KindPaymentDisputeOpened, obs.failures[1].kind)
	assert.Contains(t, obs.failures[1].err.Error(), "kaboom")
}

func TestDispatcherConcurrentSubscribeAndDispatch(t *testing.T) {
	d := NewDispatcher(nil)
	var calls atomic.Int64
	cb := func(Subject, []byte) error { calls.Add(1); return nil }
	require.NoError(t, d.Subscribe(KindPaymentCompleted, cb))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Dispatch(&Envelope{Kind: KindPaymentCompleted}, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = d.Subscribe(KindPaymentCompleted, cb)
				d.Count(KindPaymentCompleted)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 81, d.Count(KindPaymentCompleted))
	assert.GreaterOrEqual(t, calls.Load(), int64(800))
}
