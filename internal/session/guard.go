package session

import (
	"context"
	"sync"
)

// Guard serializes operations per session: a submission waits for the prior
// one's directive before being accepted. Sessions are independent, so the
// guard never blocks one session on another.
type Guard struct {
	mu    sync.Mutex
	locks map[string]*slot
}

// slot is one session's lock. refs counts the holder plus any waiters; the
// entry is removed only once the slot is idle and forgotten, so Forget can
// never hand the session to a second owner.
type slot struct {
	ch        chan struct{}
	refs      int
	forgotten bool
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{locks: make(map[string]*slot)}
}

// Acquire blocks until the session is free or ctx is done. The release
// function must be called exactly once.
func (g *Guard) Acquire(ctx context.Context, sessionID string) (release func(), err error) {
	g.mu.Lock()
	s, ok := g.locks[sessionID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		g.locks[sessionID] = s
	}
	s.refs++
	g.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			g.unref(sessionID, s)
		}, nil
	case <-ctx.Done():
		g.unref(sessionID, s)
		return nil, ctx.Err()
	}
}

// Forget drops a session's lock slot after the session ends. A slot that is
// held or awaited is only marked; the last release removes it.
func (g *Guard) Forget(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.locks[sessionID]
	if !ok {
		return
	}
	if s.refs == 0 {
		delete(g.locks, sessionID)
		return
	}
	s.forgotten = true
}

func (g *Guard) unref(sessionID string, s *slot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s.refs--
	// Guard against a same-id slot created after this one was removed.
	if s.refs == 0 && s.forgotten && g.locks[sessionID] == s {
		delete(g.locks, sessionID)
	}
}
