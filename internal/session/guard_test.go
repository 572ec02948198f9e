package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardSerializesPerSession(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)

	// A second acquire on the same session must wait until release.
	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = g.Acquire(blockedCtx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A different session is not blocked.
	release2, err := g.Acquire(ctx, "s2")
	require.NoError(t, err)
	release2()

	release()
	release3, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)
	release3()
}

func TestGuardForgetWhileHeldKeepsExclusion(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)

	// Forgetting a held session must not open the door for a second owner.
	g.Forget("s1")

	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = g.Acquire(blockedCtx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded,
		"second acquire entered while the first still held the session")

	release()
	release2, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)
	release2()
}

func TestGuardForgetWhileAwaitedKeepsExclusion(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)

	acquired := make(chan func(), 1)
	go func() {
		r, err := g.Acquire(ctx, "s1")
		if err == nil {
			acquired <- r
		}
	}()

	// Give the waiter time to park, then forget mid-wait.
	time.Sleep(20 * time.Millisecond)
	g.Forget("s1")

	select {
	case <-acquired:
		t.Fatal("waiter entered before the holder released")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case r := <-acquired:
		r()
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired after release")
	}
}

func TestGuardForgetIdleDropsSlot(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "s1")
	require.NoError(t, err)
	release()

	g.Forget("s1")
	g.mu.Lock()
	_, ok := g.locks["s1"]
	g.mu.Unlock()
	assert.False(t, ok, "idle slot should be removed")

	// Deferred removal: forget while held, slot goes with the last release.
	release, err = g.Acquire(ctx, "s1")
	require.NoError(t, err)
	g.Forget("s1")
	release()

	g.mu.Lock()
	_, ok = g.locks["s1"]
	g.mu.Unlock()
	assert.False(t, ok, "forgotten slot should be removed by the last release")
}

func TestGuardForgetUnknownIsNoop(t *testing.T) {
	g := NewGuard()
	g.Forget("never-seen")

	release, err := g.Acquire(context.Background(), "never-seen")
	require.NoError(t, err)
	release()
}
