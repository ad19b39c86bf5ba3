package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestSlot(t *testing.T, path, name string) *Slot {
	t.Helper()
	s, err := Open(context.Background(), path, name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DatabaseFileName)
	s := openTestSlot(t, path, "watchlist.items.v1")

	if _, exists, err := s.Read(ctx); err != nil || exists {
		t.Fatalf("expected empty slot, got exists=%v err=%v", exists, err)
	}
	if err := s.Write(ctx, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(ctx, []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, exists, err := s.Read(ctx)
	if err != nil || !exists {
		t.Fatalf("read: exists=%v err=%v", exists, err)
	}
	if string(b) != `[{"id":"b"}]` {
		t.Fatalf("unexpected data %q", b)
	}
}

func TestSlotsAreIndependentAndDurable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", DatabaseFileName)

	a := openTestSlot(t, path, "a")
	if err := a.Write(ctx, []byte(`["a"]`)); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b := openTestSlot(t, path, "b")
	if _, exists, err := b.Read(ctx); err != nil || exists {
		t.Fatalf("expected slot b empty, got exists=%v err=%v", exists, err)
	}

	reopened := openTestSlot(t, path, "a")
	got, exists, err := reopened.Read(ctx)
	if err != nil || !exists || string(got) != `["a"]` {
		t.Fatalf("expected slot a to survive reopen, got %q exists=%v err=%v", got, exists, err)
	}
}
