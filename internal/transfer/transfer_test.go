package transfer_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/store"
	"github.com/idilsaglam/watchlist/internal/store/storetest"
	"github.com/idilsaglam/watchlist/internal/transfer"
)

var (
	t0  = time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	ctx = context.Background()
)

func loadedStore(t *testing.T, data string) (*store.Store, *storetest.MemorySlot) {
	t.Helper()
	slot := storetest.NewMemorySlot([]byte(data))
	seq := 0
	s := store.New(slot,
		store.WithClock(func() time.Time { return t0 }),
		store.WithIDGenerator(func() string { seq++; return fmt.Sprintf("gen-%d", seq) }),
	)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, slot
}

const sample = `[
	{"id":"a","type":"book","title":"Dune","creator":"Frank Herbert","status":"current","progress":40,"rating":4.5,"notes":"**spice**","media":"Paperback","link":"https://example.org/dune","cover":"","updatedAt":"2025-01-01T00:00:00.000Z"},
	{"id":"b","type":"movie","title":"your name.","status":"done","progress":100,"rating":5,"updatedAt":"2024-06-01T00:00:00.000Z"}
]`

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := loadedStore(t, sample)
	before := s.Items()

	doc, err := transfer.Export(before)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other, _ := loadedStore(t, `[]`)
	res, err := transfer.NewEngine(other, nil).Import(ctx, doc, transfer.Replace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 || res.Dropped != 0 || res.Total != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := other.Items(); !reflect.DeepEqual(got, before) {
		t.Fatalf("round trip changed the collection:\n got %+v\nwant %+v", got, before)
	}
}

func TestExportIsPrettyPrintedArray(t *testing.T) {
	t.Parallel()

	doc, err := transfer.Export(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(string(doc)) != "[]" {
		t.Fatalf("expected empty array, got %q", doc)
	}

	doc, err = transfer.Export([]model.Item{{ID: "a", Type: "book", Title: "Dune", Status: model.StatusPlanned}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, field := range []string{`"id"`, `"type"`, `"title"`, `"creator"`, `"status"`, `"progress"`, `"rating"`, `"cover"`, `"notes"`, `"media"`, `"link"`, `"updatedAt"`} {
		if !bytes.Contains(doc, []byte("\n    "+field)) {
			t.Fatalf("expected indented field %s in %s", field, doc)
		}
	}
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	if got := transfer.ExportFileName(t0); got != "watchlist-2025-03-09.json" {
		t.Fatalf("unexpected name %q", got)
	}

	// 23:30 on the 9th in UTC-5 is already the 10th in UTC.
	late := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	if got := transfer.ExportFileName(late); got != "watchlist-2025-03-10.json" {
		t.Fatalf("expected the UTC date, got %q", got)
	}
}

func TestWriteExport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "export.json")
	items := []model.Item{{ID: "a", Type: "book", Title: "Dune", Status: model.StatusPlanned}}
	if err := transfer.WriteExport(path, items); err != nil {
		t.Fatalf("write export: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	got, dropped, err := transfer.Decode(b, t0, model.NewID)
	if err != nil || dropped != 0 || len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("unexpected decode: %+v dropped=%d err=%v", got, dropped, err)
	}
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	items := []model.Item{{ID: "a", Type: "book", Title: "Dune, Messiah", Status: model.StatusDone, Progress: 100, Rating: 4.5}}
	if err := transfer.ExportCSV(&buf, items); err != nil {
		t.Fatalf("export csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][2] != "Dune, Messiah" || rows[1][5] != "100" || rows[1][6] != "4.5" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]transfer.Mode{"replace": transfer.Replace, " MERGE ": transfer.Merge} {
		got, err := transfer.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "append"} {
		if _, err := transfer.ParseMode(in); err == nil {
			t.Fatalf("expected ParseMode(%q) to fail", in)
		}
	}
}

func TestMergeMatchesByIDBeforeTitle(t *testing.T) {
	live := []model.Item{
		{ID: "a", Type: "book", Title: "Dune"},
		{ID: "b", Type: "book", Title: "Hyperion"},
	}
	incoming := []model.Item{{ID: "a", Type: "book", Title: "Hyperion"}}

	got, st := transfer.Apply(live, incoming, transfer.Merge)
	if !reflect.DeepEqual(ids(got), []string{"a", "b"}) || got[0].Title != "Hyperion" || got[1].Title != "Hyperion" {
		t.Fatalf("expected id match to win, got %+v", got)
	}
	if st.Replaced != 1 || st.Added != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if live[0].Title != "Dune" {
		t.Fatalf("live collection mutated")
	}
}

func TestMergeFallsBackToTypeAndTitle(t *testing.T) {
	live := []model.Item{
		{ID: "x", Type: "book", Title: "Your Name."},
		{ID: "y", Type: "movie", Title: "  your name. "},
	}
	incoming := []model.Item{
		{ID: "new-1", Type: "movie", Title: "Your Name.", Rating: 5},
		{ID: "new-2", Type: "anime", Title: "Frieren"},
	}

	got, st := transfer.Apply(live, incoming, transfer.Merge)
	if !reflect.DeepEqual(ids(got), []string{"new-2", "x", "new-1"}) {
		t.Fatalf("unexpected order %v", ids(got))
	}
	if got[2].Rating != 5 {
		t.Fatalf("expected movie replaced in place, got %+v", got[2])
	}
	if st.Replaced != 1 || st.Added != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestReplaceIgnoresLive(t *testing.T) {
	live := []model.Item{{ID: "a", Type: "book", Title: "Dune"}}
	got, _ := transfer.Apply(live, nil, transfer.Replace)
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %+v", got)
	}
}

func TestImportMergeScenario(t *testing.T) {
	s, slot := loadedStore(t, `[{"id":"m","type":"movie","title":"your name.","status":"done","progress":100,"rating":4}]`)

	res, err := transfer.NewEngine(s, nil).Import(ctx, []byte(`[{"type":"movie","title":"Your Name."}]`), transfer.Merge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].Title != "Your Name." {
		t.Fatalf("expected the existing movie to be replaced, got %+v", items)
	}
	if res.Replaced != 1 || res.Added != 0 || res.Total != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if slot.Writes != 1 {
		t.Fatalf("expected one persist, got %d", slot.Writes)
	}
}

func TestImportRejectsNonSequence(t *testing.T) {
	s, slot := loadedStore(t, sample)
	before := s.Items()

	for _, doc := range []string{`"not an array"`, `{"items":[]}`, `[{`} {
		_, err := transfer.NewEngine(s, nil).Import(ctx, []byte(doc), transfer.Replace)
		var fe *transfer.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("doc %q: expected FormatError, got %v", doc, err)
		}
	}
	if !reflect.DeepEqual(s.Items(), before) || slot.Writes != 0 {
		t.Fatalf("collection changed after a failed import")
	}
}

func TestImportCountsDroppedRecords(t *testing.T) {
	s, _ := loadedStore(t, `[]`)

	doc := `[{"type":"book","title":"Dune"},{"title":"no type"},{"type":"book"},42,{"type":"movie","title":"Alien","progress":500}]`
	res, err := transfer.NewEngine(s, nil).Import(ctx, []byte(doc), transfer.Merge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 || res.Dropped != 3 || res.Added != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	items := s.Items()
	if items[0].Title != "Alien" || items[0].Progress != 100 || items[0].ID != "gen-2" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestImportRequiresMode(t *testing.T) {
	s, slot := loadedStore(t, sample)
	if _, err := transfer.NewEngine(s, nil).Import(ctx, []byte(`[]`), ""); err == nil {
		t.Fatalf("expected missing mode to fail")
	}
	if len(s.Items()) != 2 || slot.Writes != 0 {
		t.Fatalf("collection changed without a mode")
	}
}

func TestImportKeepsResultWhenPersistFails(t *testing.T) {
	s, slot := loadedStore(t, `[]`)
	slot.WriteErr = errors.New("disk full")

	res, err := transfer.NewEngine(s, nil).Import(ctx, []byte(sample), transfer.Replace)
	if !store.IsStorageError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if res.Total != 2 || len(s.Items()) != 2 || !s.Degraded() {
		t.Fatalf("expected in-memory import to stand, got %+v", res)
	}
}

func TestImportFile(t *testing.T) {
	s, _ := loadedStore(t, `[]`)
	eng := transfer.NewEngine(s, nil)

	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, append([]byte("\xef\xbb\xbf"), sample...), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := eng.ImportFile(ctx, path, transfer.Merge)
	if err != nil || res.Imported != 2 {
		t.Fatalf("import file: %+v %v", res, err)
	}

	_, err = eng.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.json"), transfer.Merge)
	var re *transfer.ReadError
	if !errors.As(err, &re) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ReadError wrapping ErrNotExist, got %v", err)
	}
	if len(s.Items()) != 2 {
		t.Fatalf("failed read changed the collection")
	}
}

func TestImportReader(t *testing.T) {
	s, _ := loadedStore(t, sample)
	res, err := transfer.NewEngine(s, nil).ImportReader(ctx, "stdin", strings.NewReader(`[{"id":"c","type":"anime","title":"Frieren"}]`), transfer.Merge)
	if err != nil || res.Added != 1 || res.Total != 3 {
		t.Fatalf("import reader: %+v %v", res, err)
	}
	if s.Items()[0].ID != "c" {
		t.Fatalf("expected new record at the front")
	}
}
