package gate

import (
	"errors"
	"sync"
	"testing"
)

func TestContact(t *testing.T) {
	t.Parallel()

	g := New(100)

	t.Run("admin bypasses gating", func(t *testing.T) {
		if got := g.Contact(100, "admin"); got != AlreadyAdmin {
			t.Fatalf("expected AlreadyAdmin, got %v", got)
		}
		if pending, _ := g.Counts(); pending != 0 {
			t.Fatalf("admin contact must not create a pending entry")
		}
	})

	t.Run("first contact submits exactly one pending entry", func(t *testing.T) {
		if got := g.Contact(555, "alice"); got != PendingSubmitted {
			t.Fatalf("expected PendingSubmitted, got %v", got)
		}
		if pending, _ := g.Counts(); pending != 1 {
			t.Fatalf("expected 1 pending entry, got %d", pending)
		}
	})

	t.Run("repeat contact overwrites the name without duplicating", func(t *testing.T) {
		if got := g.Contact(555, "alice the second"); got != PendingSubmitted {
			t.Fatalf("expected PendingSubmitted, got %v", got)
		}
		if pending, _ := g.Counts(); pending != 1 {
			t.Fatalf("expected 1 pending entry, got %d", pending)
		}
		res, err := g.Decide(555, true)
		if err != nil {
			t.Fatalf("decide failed: %v", err)
		}
		if res.Name != "alice the second" {
			t.Fatalf("expected overwritten name, got %q", res.Name)
		}
	})

	t.Run("authorized identity no longer gated", func(t *testing.T) {
		if got := g.Contact(555, "alice"); got != AlreadyAuthorized {
			t.Fatalf("expected AlreadyAuthorized, got %v", got)
		}
	})
}

func TestDecide(t *testing.T) {
	t.Parallel()

	t.Run("accept authorizes and removes pending", func(t *testing.T) {
		g := New(100)
		g.Contact(1, "one")
		res, err := g.Decide(1, true)
		if err != nil {
			t.Fatalf("decide failed: %v", err)
		}
		if res.Target != 1 || res.Name != "one" || !res.Accepted {
			t.Fatalf("unexpected result: %+v", res)
		}
		if !g.IsAuthorized(1) {
			t.Fatalf("identity should be authorized after accept")
		}
	})

	t.Run("reject removes pending without authorizing", func(t *testing.T) {
		g := New(100)
		g.Contact(2, "two")
		res, err := g.Decide(2, false)
		if err != nil {
			t.Fatalf("decide failed: %v", err)
		}
		if res.Accepted {
			t.Fatalf("expected rejection")
		}
		if g.IsAuthorized(2) {
			t.Fatalf("rejected identity must not be authorized")
		}
	})

	t.Run("duplicate decision fails with ErrUnknownPending", func(t *testing.T) {
		g := New(100)
		g.Contact(3, "three")
		if _, err := g.Decide(3, true); err != nil {
			t.Fatalf("first decide failed: %v", err)
		}
		if _, err := g.Decide(3, true); !errors.Is(err, ErrUnknownPending) {
			t.Fatalf("expected ErrUnknownPending, got %v", err)
		}
		if !g.IsAuthorized(3) {
			t.Fatalf("first decision must stand")
		}
	})

	t.Run("decision on unknown identity fails", func(t *testing.T) {
		g := New(100)
		if _, err := g.Decide(999, true); !errors.Is(err, ErrUnknownPending) {
			t.Fatalf("expected ErrUnknownPending, got %v", err)
		}
	})
}

func TestDecideConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	g := New(100)
	g.Contact(7, "seven")

	const presses = 16
	var wg sync.WaitGroup
	granted := make(chan DecideResult, presses)
	for i := 0; i < presses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, err := g.Decide(7, true); err == nil {
				granted <- res
			}
		}()
	}
	wg.Wait()
	close(granted)

	var wins int
	for range granted {
		wins++
	}
	if wins != 1 {
		t.Fatalf("exactly one decision must win, got %d", wins)
	}
	if !g.IsAuthorized(7) {
		t.Fatalf("identity should be authorized")
	}
}
