package session

import (
	"context"
	"testing"
	"time"
)

func TestGateTryAcquire(t *testing.T) {
	g := newGate(time.Second)

	release, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}

	if _, ok := g.tryAcquire(); ok {
		t.Error("tryAcquire succeeded while the gate was held")
	}

	release()

	if _, ok := g.tryAcquire(); !ok {
		t.Error("tryAcquire failed after release")
	}
}

func TestGateReleaseIsIdempotent(t *testing.T) {
	g := newGate(time.Second)

	release, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}

	release()
	release() // second call must be a no-op, not a panic or double release

	release2, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed after double release")
	}
	release2()
}

func TestGateAutoReleaseAfterTimeout(t *testing.T) {
	g := newGate(50 * time.Millisecond)

	// Simulate a stalled holder that never releases.
	_, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}

	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := g.tryAcquire(); ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("gate never auto-released after the timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGateStaleReleaseAfterAutoRelease(t *testing.T) {
	g := newGate(30 * time.Millisecond)

	release, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}

	// Wait for the auto-release to fire, then take the gate again.
	time.Sleep(100 * time.Millisecond)
	release2, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed after auto-release")
	}

	// The original holder finally "finishes"; its release must not
	// free the gate out from under the new holder.
	release()

	if _, ok := g.tryAcquire(); ok {
		t.Error("stale release freed a gate held by someone else")
	}
	release2()
}

func TestGateAcquireQueues(t *testing.T) {
	g := newGate(time.Second)

	release, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}

	acquired := make(chan struct{})
	go func() {
		rel, err := g.acquire(context.Background())
		if err != nil {
			t.Errorf("acquire failed: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		rel()
	}()

	select {
	case <-acquired:
		t.Fatal("queued acquire completed while the gate was held")
	case <-time.After(30 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("queued acquire never completed after release")
	}
}

func TestGateAcquireHonorsContext(t *testing.T) {
	g := newGate(time.Minute)

	release, ok := g.tryAcquire()
	if !ok {
		t.Fatal("tryAcquire failed on a free gate")
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := g.acquire(ctx); err == nil {
		t.Error("acquire succeeded despite expired context")
	}
}
