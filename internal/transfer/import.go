// Package transfer moves the collection in and out of portable documents and
// reconciles imported records with the live collection.
package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/store"
)

type Mode string

const (
	// Replace swaps the live collection for the imported one.
	Replace Mode = "replace"
	// Merge matches imported records by id, then by type and title.
	Merge Mode = "merge"
)

// ParseMode accepts "replace" or "merge". There is no default.
func ParseMode(v string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(v))); m {
	case Replace, Merge:
		return m, nil
	case "":
		return "", errors.New("import mode is required (replace or merge)")
	default:
		return "", fmt.Errorf("unknown import mode %q (want replace or merge)", v)
	}
}

// Decode parses an import document. Unusable records are dropped and counted.
// Any document that is not a list of records yields a *FormatError.
func Decode(doc []byte, now time.Time, newID func() string) ([]model.Item, int, error) {
	items, stats, err := model.DecodeCollection(doc, now, newID)
	if err != nil {
		return nil, 0, &FormatError{Err: err}
	}
	return items, stats.Dropped, nil
}

// Stats counts how Apply placed the incoming records.
type Stats struct {
	Replaced int
	Added    int
}

// Apply returns the collection that results from importing incoming into live.
// live is never modified.
func Apply(live, incoming []model.Item, mode Mode) ([]model.Item, Stats) {
	if mode == Replace {
		return append([]model.Item{}, incoming...), Stats{Added: len(incoming)}
	}

	out := append([]model.Item{}, live...)
	var st Stats
	for _, in := range incoming {
		if idx := matchIndex(out, in); idx >= 0 {
			out[idx] = in
			st.Replaced++
			continue
		}
		out = append([]model.Item{in}, out...)
		st.Added++
	}
	return out, st
}

func matchIndex(items []model.Item, in model.Item) int {
	for i := range items {
		if items[i].ID == in.ID {
			return i
		}
	}
	key := model.TitleKey(in.Title)
	for i := range items {
		if items[i].Type == in.Type && model.TitleKey(items[i].Title) == key {
			return i
		}
	}
	return -1
}

// Result summarizes a finished import.
type Result struct {
	Mode     Mode
	Imported int // usable records in the document
	Dropped  int // records skipped as unusable
	Replaced int
	Added    int
	Total    int // collection size afterwards
}

// Engine imports documents into a Store.
type Engine struct {
	Store  *store.Store
	Clock  func() time.Time
	IDGen  func() string
	Logger *slog.Logger
}

// NewEngine returns an engine that stamps records with the store's clock and ids.
func NewEngine(s *store.Store, logger *slog.Logger) *Engine {
	return &Engine{Store: s, Clock: s.Now, IDGen: s.NewID, Logger: logger}
}

// Import decodes doc fully, then applies it to the store in mode.
// A decode failure returns before anything changes. A *store.StorageError is
// returned alongside a valid Result when the new collection could not be saved.
func (e *Engine) Import(ctx context.Context, doc []byte, mode Mode) (Result, error) {
	if mode != Replace && mode != Merge {
		return Result{}, fmt.Errorf("unknown import mode %q", mode)
	}

	incoming, dropped, err := Decode(doc, e.now(), e.newID())
	if err != nil {
		return Result{}, err
	}

	merged, st := Apply(e.Store.Items(), incoming, mode)
	res := Result{
		Mode:     mode,
		Imported: len(incoming),
		Dropped:  dropped,
		Replaced: st.Replaced,
		Added:    st.Added,
	}

	items, err := e.Store.Replace(ctx, merged)
	res.Total = len(items)
	if err != nil && !store.IsStorageError(err) {
		return Result{}, err
	}

	e.logger().Info("import applied",
		"mode", string(mode),
		"imported", res.Imported,
		"dropped", res.Dropped,
		"replaced", res.Replaced,
		"added", res.Added,
		"total", res.Total,
	)
	return res, err
}

// ImportFile reads path and imports it. Read failures yield a *ReadError.
func (e *Engine) ImportFile(ctx context.Context, path string, mode Mode) (Result, error) {
	doc, err := readDocument(path)
	if err != nil {
		return Result{}, err
	}
	return e.Import(ctx, doc, mode)
}

// ImportReader imports a document read from r, e.g. stdin.
func (e *Engine) ImportReader(ctx context.Context, name string, r io.Reader, mode Mode) (Result, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return Result{}, &ReadError{Path: name, Err: err}
	}
	return e.Import(ctx, doc, mode)
}

func readDocument(path string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return bytes.TrimPrefix(doc, []byte("\xef\xbb\xbf")), nil
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return e.Store.Now()
}

func (e *Engine) newID() func() string {
	if e.IDGen != nil {
		return e.IDGen
	}
	return e.Store.NewID
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
