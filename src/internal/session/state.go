package session

import (
	"sync"
	"time"

	"lubritec-storefront-svc/src/internal/models"
)

// State is the in-memory side of one browser's session: the bearer
// token and profile mirrored by the persistence store, the readiness
// flag, and the gate serializing mutations. A State is shared by every
// request carrying the same browser identifier.
type State struct {
	mu       sync.RWMutex
	token    string
	user     *models.User
	ready    bool
	gate     *gate
	lastSeen time.Time
}

func newState(lockTimeout time.Duration) *State {
	return &State{
		gate:     newGate(lockTimeout),
		lastSeen: time.Now(),
	}
}

func (s *State) snapshot() (string, *models.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.user
}

func (s *State) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *State) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Registry keeps per-browser session states keyed by the sid cookie,
// evicting states idle for longer than the configured window. Without
// eviction an abandoned browser would pin its state forever.
type Registry struct {
	mu          sync.Mutex
	states      map[string]*State
	lockTimeout time.Duration
	idle        time.Duration
	done        chan struct{}
	closeOnce   sync.Once
}

func NewRegistry(lockTimeout, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	r := &Registry{
		states:      make(map[string]*State),
		lockTimeout: lockTimeout,
		idle:        idle,
		done:        make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Get returns the state for a browser identifier, creating it on first
// sight.
func (r *Registry) Get(sid string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[sid]
	if !ok {
		state = newState(r.lockTimeout)
		r.states[sid] = state
	}
	state.touch()
	return state
}

// Len reports the number of live states.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Close stops the eviction loop.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, state := range r.states {
		state.mu.RLock()
		stale := state.lastSeen.Before(cutoff)
		state.mu.RUnlock()
		if stale {
			delete(r.states, sid)
		}
	}
}
