package store_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/store"
	"github.com/idilsaglam/watchlist/internal/store/storetest"
)

var (
	t0  = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx = context.Background()
)

func newTestStore(t *testing.T, slot *storetest.MemorySlot) (*store.Store, *time.Time) {
	t.Helper()
	now := t0
	seq := 0
	s := store.New(slot,
		store.WithClock(func() time.Time { return now }),
		store.WithIDGenerator(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
	)
	return s, &now
}

func duneCollection() []byte {
	return []byte(`[{"id":"a","type":"book","title":"Dune","status":"planned","progress":0,"rating":0,"updatedAt":"2025-01-01T00:00:00.000Z"}]`)
}

func TestLoadEmptySlotReturnsDemoSeed(t *testing.T) {
	slot := storetest.NewMemorySlot(nil)
	s, _ := newTestStore(t, slot)

	items, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 seed items, got %d", len(items))
	}
	if slot.Writes != 0 {
		t.Fatalf("expected seed not to be persisted on load, got %d writes", slot.Writes)
	}
}

func TestLoadWithCustomSeed(t *testing.T) {
	seed := []model.Item{{ID: "s", Type: "book", Title: "Seed", Status: model.StatusPlanned}}
	s := store.New(storetest.NewMemorySlot(nil), store.WithSeed(seed))
	items, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 || items[0].ID != "s" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestLoadNormalizesSavedRecords(t *testing.T) {
	slot := storetest.NewMemorySlot([]byte(`[{"id":"a","type":"book","title":" Dune ","progress":500},{"title":"no type"}]`))
	s, _ := newTestStore(t, slot)

	items, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Dune" || items[0].Progress != 100 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestLoadCorruptSlotIsStorageError(t *testing.T) {
	s, _ := newTestStore(t, storetest.NewMemorySlot([]byte(`{"oops":true}`)))
	_, err := s.Load(ctx)
	var se *store.StorageError
	if !errors.As(err, &se) || se.Op != "decode" {
		t.Fatalf("expected decode storage error, got %v", err)
	}
	if !errors.Is(err, model.ErrNotSequence) {
		t.Fatalf("expected ErrNotSequence in chain, got %v", err)
	}
}

func TestLoadReadFailureIsStorageError(t *testing.T) {
	slot := storetest.NewMemorySlot(nil)
	slot.ReadErr = errors.New("disk gone")
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); !store.IsStorageError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestUpsertInsertsAtFrontAndReplacesInPlace(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	added := model.Item{ID: "b", Type: "movie", Title: "Alien", Status: model.StatusPlanned}
	items, err := s.Upsert(ctx, added)
	if err != nil {
		t.Fatalf("upsert new: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("expected new item at front, got %+v", items)
	}

	edited := model.Item{ID: "a", Type: "book", Title: "Dune Messiah", Status: model.StatusDone, Progress: 100}
	items, err = s.Upsert(ctx, edited)
	if err != nil {
		t.Fatalf("upsert existing: %v", err)
	}
	if len(items) != 2 || items[1].ID != "a" || items[1].Title != "Dune Messiah" {
		t.Fatalf("expected in-place replace, got %+v", items)
	}
	if slot.Writes != 2 {
		t.Fatalf("expected a persist per mutation, got %d", slot.Writes)
	}
	if !bytes.Contains(slot.Snapshot(), []byte("Dune Messiah")) {
		t.Fatalf("expected persisted data to contain the edit")
	}
}

func TestUpsertRejectsInvalidPayload(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	bad := []model.Item{
		{ID: "x", Type: "book", Title: "", Status: model.StatusPlanned},
		{ID: "x", Type: "book", Title: "T", Status: "bogus"},
		{ID: "x", Type: "book", Title: "T", Status: model.StatusPlanned, Progress: 101},
		{ID: "x", Type: "book", Title: "T", Status: model.StatusPlanned, Rating: 5.5},
	}
	for _, it := range bad {
		_, err := s.Upsert(ctx, it)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %+v, got %v", it, err)
		}
	}
	if slot.Writes != 0 || len(s.Items()) != 1 {
		t.Fatalf("expected rejected payloads to leave the store untouched")
	}
}

func TestDelete(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	items, err := s.Delete(ctx, "missing")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected no-op delete, got %d items (%v)", len(items), err)
	}
	items, err = s.Delete(ctx, "a")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected item removed, got %d items (%v)", len(items), err)
	}
	if string(slot.Snapshot()) != "[]" {
		t.Fatalf("expected empty array persisted, got %q", slot.Snapshot())
	}
}

func TestCycleStatusScenario(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, now := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []model.Status{model.StatusCurrent, model.StatusPaused, model.StatusDone, model.StatusDropped, model.StatusPlanned}
	for i, w := range want {
		*now = now.Add(time.Minute)
		items, err := s.CycleStatus(ctx, "a")
		if err != nil {
			t.Fatalf("cycle %d: %v", i+1, err)
		}
		if items[0].Status != w {
			t.Fatalf("cycle %d: got %q want %q", i+1, items[0].Status, w)
		}
		if items[0].UpdatedAt != model.Timestamp(*now) {
			t.Fatalf("cycle %d: expected updatedAt bump, got %q", i+1, items[0].UpdatedAt)
		}
	}
	if slot.Writes != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), slot.Writes)
	}
}

func TestCycleStatusUnknownIDIsNoop(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	items, err := s.CycleStatus(ctx, "nope")
	if err != nil || items[0].Status != model.StatusPlanned || slot.Writes != 0 {
		t.Fatalf("expected no-op, got %+v writes=%d err=%v", items, slot.Writes, err)
	}
}

func TestPersistFailureKeepsChangesInMemory(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	slot.WriteErr = errors.New("quota exceeded")
	items, err := s.CycleStatus(ctx, "a")
	var se *store.StorageError
	if !errors.As(err, &se) || se.Op != "write" {
		t.Fatalf("expected write storage error, got %v", err)
	}
	if items[0].Status != model.StatusCurrent {
		t.Fatalf("expected in-memory mutation to survive, got %q", items[0].Status)
	}
	if !s.Degraded() {
		t.Fatalf("expected store to be degraded")
	}

	slot.WriteErr = nil
	if _, err := s.CycleStatus(ctx, "a"); err != nil {
		t.Fatalf("cycle after recovery: %v", err)
	}
	if s.Degraded() {
		t.Fatalf("expected store to recover after a successful write")
	}
	if !bytes.Contains(slot.Snapshot(), []byte(`"paused"`)) {
		t.Fatalf("expected recovered write to carry the latest state, got %s", slot.Snapshot())
	}
}

func TestReplaceValidatesBeforeMutating(t *testing.T) {
	slot := storetest.NewMemorySlot(duneCollection())
	s, _ := newTestStore(t, slot)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	dup := []model.Item{
		{ID: "x", Type: "book", Title: "One", Status: model.StatusPlanned},
		{ID: "x", Type: "book", Title: "Two", Status: model.StatusPlanned},
	}
	if _, err := s.Replace(ctx, dup); err == nil {
		t.Fatalf("expected duplicate ids to be rejected")
	}
	if got := s.Items(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected collection untouched, got %+v", got)
	}

	items, err := s.Replace(ctx, dup[:1])
	if err != nil || len(items) != 1 || items[0].ID != "x" {
		t.Fatalf("unexpected replace result %+v (%v)", items, err)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, storetest.NewMemorySlot(duneCollection()))
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	items := s.Items()
	items[0].Title = "mutated"
	if got, _ := s.Get("a"); got.Title != "Dune" {
		t.Fatalf("expected store to be isolated from caller mutation, got %q", got.Title)
	}
}
