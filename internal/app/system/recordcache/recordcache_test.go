package recordcache

import (
	"context"
	"errors"
	"testing"
)

func TestSnapshot_LoadsOnceUntilInvalidated(t *testing.T) {
	loads := 0
	c := New(func(ctx context.Context) ([]int, error) {
		loads++
		return []int{1, 2, 3}, nil
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1 (cache should serve repeats)", loads)
	}

	c.Invalidate()
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot after Invalidate: %v", err)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2 after invalidation", loads)
	}
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	c := New(func(ctx context.Context) ([]int, error) {
		return []int{10, 20}, nil
	})

	first, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	first[0] = 99

	second, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if second[0] != 10 {
		t.Errorf("cache contents mutated through a snapshot: %v", second)
	}
}

func TestSnapshot_LoadErrorStaysStale(t *testing.T) {
	fail := true
	loads := 0
	c := New(func(ctx context.Context) ([]int, error) {
		loads++
		if fail {
			return nil, errors.New("gateway unavailable")
		}
		return []int{1}, nil
	})
	ctx := context.Background()

	if _, err := c.Snapshot(ctx); err == nil {
		t.Fatal("Snapshot succeeded, want load error")
	}

	fail = false
	got, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot after recovery: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2 (failed load must not mark fresh)", loads)
	}
}
