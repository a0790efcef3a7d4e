package goroutine

import (
	"context"
	"errors"
	"testing"
)

func TestManager(t *testing.T) {
	t.Run("collects errors and ignores cancellation", func(t *testing.T) {
		m := NewManager(4)
		boom := errors.New("boom")

		m.Go(context.Background(), func(context.Context) error { return boom })
		m.Go(context.Background(), func(context.Context) error { return context.Canceled })
		m.Go(context.Background(), func(context.Context) error { return nil })

		err := m.Wait()
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if errors.Is(err, context.Canceled) {
			t.Fatal("cancellation must not be reported")
		}
	})

	t.Run("recovers panics", func(t *testing.T) {
		m := NewManager(1)
		m.Go(context.Background(), func(context.Context) error { panic("bad") })

		if err := m.Wait(); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	})

	t.Run("rejects when full", func(t *testing.T) {
		m := NewManager(1)
		release := make(chan struct{})
		started := m.Go(context.Background(), func(context.Context) error { <-release; return nil })
		rejected := !m.Go(context.Background(), func(context.Context) error { return nil })
		close(release)

		err := m.Wait()
		if !started || !rejected {
			t.Fatalf("started=%v rejected=%v", started, rejected)
		}
		if !errors.Is(err, ErrLimitReached) {
			t.Fatalf("expected ErrLimitReached, got %v", err)
		}
	})

	t.Run("closed manager skips tasks", func(t *testing.T) {
		m := NewManager(1)
		_ = m.Wait()

		if m.Go(context.Background(), func(context.Context) error { return nil }) {
			t.Fatal("expected task to be skipped")
		}
	})
}
