package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// gate serializes session-mutating operations for one browser state.
// It offers both fail-fast acquisition (login refuses to stack behind
// a login already in flight) and queued waiting. Every acquisition
// self-releases after the configured timeout so a stalled holder can
// never freeze session operations; the corresponding explicit release
// then becomes a no-op.
type gate struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// defaultGateTimeout is a liveness/correctness trade-off: after it
// fires, a second operation may overlap with a holder that is still
// stalled on the network. Tunable via session.lock-timeout-seconds.
const defaultGateTimeout = 5 * time.Second

func newGate(timeout time.Duration) *gate {
	if timeout <= 0 {
		timeout = defaultGateTimeout
	}
	return &gate{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

// tryAcquire takes the gate if it is free. The returned release is
// safe to call exactly once and after the auto-release already fired.
func (g *gate) tryAcquire() (release func(), ok bool) {
	if !g.sem.TryAcquire(1) {
		return nil, false
	}
	return g.releaser(), true
}

// acquire waits in line for the gate. The auto-release timeout on the
// current holder bounds the wait.
func (g *gate) acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return g.releaser(), nil
}

func (g *gate) releaser() func() {
	var once sync.Once
	free := func() { once.Do(func() { g.sem.Release(1) }) }

	timer := time.AfterFunc(g.timeout, free)
	return func() {
		timer.Stop()
		free()
	}
}
