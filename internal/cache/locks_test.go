package cache

import (
	"context"
	"testing"
	"time"
)

func TestKeyedMutexFailsFast(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	ok, err := m.TryLock(ctx, "session:1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("Expected first TryLock to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = m.TryLock(ctx, "session:1", time.Minute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected contended TryLock to fail fast")
	}

	// Other keys are independent.
	ok, _ = m.TryLock(ctx, "session:2", time.Minute)
	if !ok {
		t.Error("Expected an unrelated key to lock")
	}

	if err := m.Unlock(ctx, "session:1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ok, _ = m.TryLock(ctx, "session:1", time.Minute)
	if !ok {
		t.Error("Expected TryLock to succeed after Unlock")
	}
}
