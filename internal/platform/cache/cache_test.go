package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, "")

	if c.Enabled() {
		t.Error("cache with empty URL should be disabled")
	}

	var out []string
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
	if err := c.Set(ctx, "k", []string{"a"}, time.Minute); err != nil {
		t.Errorf("Set on disabled cache: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on disabled cache: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on disabled cache: %v", err)
	}
	if gen := c.Generation(ctx, "g"); gen != 0 {
		t.Errorf("Generation on disabled cache = %d, want 0", gen)
	}
	if err := c.Bump(ctx, "g"); err != nil {
		t.Errorf("Bump on disabled cache: %v", err)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Error("nil cache should be disabled")
	}
	if err := c.Get(context.Background(), "k", nil); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestInvalidURLDisables(t *testing.T) {
	c := New(context.Background(), "not-a-url")
	if c.Enabled() {
		t.Error("cache with invalid URL should be disabled")
	}
}
