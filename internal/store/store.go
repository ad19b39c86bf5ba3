package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/idilsaglam/watchlist/internal/model"
)

// SlotName is the name of the single persisted slot holding the collection.
const SlotName = "watchlist.items.v1"

// Slot is durable storage for the serialized collection.
// Read reports exists=false (and no error) when nothing has been written yet.
type Slot interface {
	Name() string
	Read(ctx context.Context) (data []byte, exists bool, err error)
	Write(ctx context.Context, data []byte) error
}

// StorageError wraps a slot failure.
type StorageError struct {
	Op   string // "read", "decode" or "write"
	Slot string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Slot, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err carries a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Store owns the live collection. Every mutation goes through it and is
// persisted immediately.
//
// Store is not safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	slot   Slot
	items  []model.Item
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	seed   func(time.Time, func() string) []model.Item

	degraded bool
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSeed replaces the demo collection returned when the slot is empty.
func WithSeed(items []model.Item) Option {
	return func(s *Store) {
		cp := append([]model.Item(nil), items...)
		s.seed = func(time.Time, func() string) []model.Item {
			return append([]model.Item(nil), cp...)
		}
	}
}

func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  model.NewID,
		seed:   model.DemoSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now and NewID expose the store's clock and id generator so the form and
// import paths stamp records consistently with the store.
func (s *Store) Now() time.Time { return s.now() }
func (s *Store) NewID() string  { return s.newID() }

// SlotName returns the name of the backing slot.
func (s *Store) SlotName() string { return s.slot.Name() }

// Degraded reports whether the last persist attempt failed. While degraded the
// collection only lives in memory.
func (s *Store) Degraded() bool { return s.degraded }

// Load reads the persisted collection. An absent slot yields the demo seed.
func (s *Store) Load(ctx context.Context) ([]model.Item, error) {
	data, exists, err := s.slot.Read(ctx)
	if err != nil {
		return nil, &StorageError{Op: "read", Slot: s.slot.Name(), Err: err}
	}
	if !exists {
		s.items = s.seed(s.now(), s.newID)
		s.logger.Debug("no saved collection; using demo seed", "slot", s.slot.Name(), "items", len(s.items))
		return s.Items(), nil
	}

	items, stats, err := model.DecodeCollection(data, s.now(), s.newID)
	if err != nil {
		return nil, &StorageError{Op: "decode", Slot: s.slot.Name(), Err: err}
	}
	if stats.Dropped > 0 || stats.Duplicates > 0 {
		s.logger.Warn("saved collection had unusable records",
			"slot", s.slot.Name(),
			"dropped", stats.Dropped,
			"duplicates", stats.Duplicates,
		)
	}
	s.items = items
	s.logger.Debug("collection loaded", "slot", s.slot.Name(), "items", len(items))
	return s.Items(), nil
}

// Items returns a copy of the collection in stored order.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (model.Item, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return model.Item{}, false
}

// Upsert stores an already normalized item. An existing item with the same id
// is replaced in place; a new one goes to the front.
func (s *Store) Upsert(ctx context.Context, payload model.Item) ([]model.Item, error) {
	if err := model.Validate(payload); err != nil {
		return s.Items(), err
	}
	if idx := s.indexOf(payload.ID); idx >= 0 {
		s.items[idx] = payload
	} else {
		s.items = append([]model.Item{payload}, s.items...)
	}
	return s.Items(), s.Persist(ctx)
}

// Delete removes the item with id. Unknown ids change nothing but still persist.
func (s *Store) Delete(ctx context.Context, id string) ([]model.Item, error) {
	if idx := s.indexOf(id); idx >= 0 {
		s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	}
	return s.Items(), s.Persist(ctx)
}

// CycleStatus advances the item's status one step and bumps updatedAt.
// Unknown ids are a no-op.
func (s *Store) CycleStatus(ctx context.Context, id string) ([]model.Item, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s.Items(), nil
	}
	s.items[idx].Status = s.items[idx].Status.Next()
	s.items[idx].UpdatedAt = model.Timestamp(s.now())
	return s.Items(), s.Persist(ctx)
}

// Replace swaps the whole collection. It is the bulk write path used by import;
// every item must already satisfy model.Validate and ids must be unique.
func (s *Store) Replace(ctx context.Context, items []model.Item) ([]model.Item, error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := model.Validate(it); err != nil {
			return s.Items(), fmt.Errorf("replace %q: %w", it.ID, err)
		}
		if _, dup := seen[it.ID]; dup {
			return s.Items(), fmt.Errorf("replace: duplicate id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	s.items = append([]model.Item(nil), items...)
	return s.Items(), s.Persist(ctx)
}

// Persist writes the full collection to the slot. On failure the in-memory
// collection is kept, the store is marked degraded and a *StorageError is returned.
func (s *Store) Persist(ctx context.Context) error {
	data, err := model.EncodeCollection(s.items)
	if err != nil {
		return err
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.degraded = true
		s.logger.Warn("persist failed; keeping changes in memory",
			"slot", s.slot.Name(),
			"items", len(s.items),
			"error", err,
		)
		return &StorageError{Op: "write", Slot: s.slot.Name(), Err: err}
	}
	if s.degraded {
		s.logger.Info("persist recovered", "slot", s.slot.Name())
		s.degraded = false
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
