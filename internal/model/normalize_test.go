package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestNormalizeRejectsUnusableRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
	}{
		{name: "nil", in: nil},
		{name: "string", in: "not an object"},
		{name: "array", in: []any{"x"}},
		{name: "missing title", in: map[string]any{"type": "book"}},
		{name: "missing type", in: map[string]any{"title": "Dune"}},
		{name: "blank title", in: map[string]any{"type": "book", "title": "   "}},
		{name: "blank type", in: map[string]any{"type": " ", "title": "Dune"}},
		{name: "object title", in: map[string]any{"type": "book", "title": map[string]any{"x": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := Normalize(tt.in, testNow, fixedID("gen")); ok {
				t.Fatalf("expected record to be rejected")
			}
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	got, ok := Normalize(map[string]any{"type": "movie", "title": "  Your Name.  "}, testNow, fixedID("gen-1"))
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	want := Item{
		ID:        "gen-1",
		Type:      "movie",
		Title:     "Your Name.",
		Status:    StatusPlanned,
		UpdatedAt: "2025-03-09T18:30:00.000Z",
	}
	if got != want {
		t.Fatalf("unexpected item:\n got %+v\nwant %+v", got, want)
	}
}

func TestNormalizeKeepsValidFields(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"id": "a", "type": "book", "title": "Dune", "creator": "Frank Herbert",
		"status": "current", "progress": 42.0, "rating": 4.5, "cover": "http://x/c.jpg",
		"notes": "n", "media": "Kindle", "link": "http://x", "updatedAt": "2024-01-01T00:00:00.000Z",
	}
	got, ok := Normalize(raw, testNow, fixedID("unused"))
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	want := Item{
		ID: "a", Type: "book", Title: "Dune", Creator: "Frank Herbert", Status: StatusCurrent,
		Progress: 42, Rating: 4.5, Cover: "http://x/c.jpg", Notes: "n", Media: "Kindle",
		Link: "http://x", UpdatedAt: "2024-01-01T00:00:00.000Z",
	}
	if got != want {
		t.Fatalf("unexpected item:\n got %+v\nwant %+v", got, want)
	}
}

func TestNormalizeCoercesAndClamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		progress     any
		rating       any
		wantProgress int
		wantRating   float64
	}{
		{name: "in range", progress: 50.0, rating: 2.5, wantProgress: 50, wantRating: 2.5},
		{name: "too high", progress: 250.0, rating: 9.0, wantProgress: 100, wantRating: 5},
		{name: "negative", progress: -3.0, rating: -1.0, wantProgress: 0, wantRating: 0},
		{name: "numeric strings", progress: "75", rating: "3.5", wantProgress: 75, wantRating: 3.5},
		{name: "garbage strings", progress: "lots", rating: "five", wantProgress: 0, wantRating: 0},
		{name: "missing", progress: nil, rating: nil, wantProgress: 0, wantRating: 0},
		{name: "objects", progress: map[string]any{}, rating: []any{1.0}, wantProgress: 0, wantRating: 0},
		{name: "infinity", progress: "Infinity", rating: "-Infinity", wantProgress: 100, wantRating: 0},
		{name: "NaN", progress: "NaN", rating: math.NaN(), wantProgress: 0, wantRating: 0},
		{name: "fractional progress rounds", progress: 33.6, rating: 1.0, wantProgress: 34, wantRating: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := map[string]any{"type": "book", "title": "T", "progress": tt.progress, "rating": tt.rating}
			got, ok := Normalize(raw, testNow, fixedID("x"))
			if !ok {
				t.Fatalf("expected record to normalize")
			}
			if got.Progress != tt.wantProgress {
				t.Fatalf("progress: got %d want %d", got.Progress, tt.wantProgress)
			}
			if got.Rating != tt.wantRating {
				t.Fatalf("rating: got %v want %v", got.Rating, tt.wantRating)
			}
		})
	}
}

func TestNormalizeNeverLeavesRangeOrEnum(t *testing.T) {
	t.Parallel()

	values := []any{nil, -1e9, -0.5, 0.0, 0.49, 2.5, 5.01, 99.9, 100.5, 1e12, "12", "-7", "x", true, false}
	statuses := []any{nil, "", "planned", "current", "paused", "dropped", "done", "DONE", "finished", 3.0}
	for _, p := range values {
		for _, r := range values {
			for _, s := range statuses {
				raw := map[string]any{"type": "book", "title": "T", "progress": p, "rating": r, "status": s}
				got, ok := Normalize(raw, testNow, fixedID("x"))
				if !ok {
					t.Fatalf("expected record to normalize: %v", raw)
				}
				if got.Progress < MinProgress || got.Progress > MaxProgress {
					t.Fatalf("progress out of range for %v: %d", raw, got.Progress)
				}
				if got.Rating < MinRating || got.Rating > MaxRating {
					t.Fatalf("rating out of range for %v: %v", raw, got.Rating)
				}
				if !got.Status.Valid() {
					t.Fatalf("invalid status for %v: %q", raw, got.Status)
				}
			}
		}
	}
}

func TestNormalizeStatusIsExact(t *testing.T) {
	t.Parallel()

	got, _ := Normalize(map[string]any{"type": "book", "title": "T", "status": "Current"}, testNow, fixedID("x"))
	if got.Status != StatusPlanned {
		t.Fatalf("expected unknown casing to fall back to planned, got %q", got.Status)
	}
}

func TestNormalizeCoercesScalarText(t *testing.T) {
	t.Parallel()

	got, ok := Normalize(map[string]any{"id": 17.0, "type": "book", "title": 1984.0, "creator": true}, testNow, fixedID("x"))
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	if got.ID != "17" || got.Title != "1984" || got.Creator != "true" {
		t.Fatalf("unexpected coercion: %+v", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []map[string]any{
		{"id": "a", "type": "book", "title": " Dune ", "progress": 150.0, "rating": 7.0, "status": "nope", "updatedAt": "2024-05-01T10:00:00.000Z"},
		{"id": "b", "type": "anime", "title": "Frieren", "creator": "Madhouse", "progress": "12", "rating": "4.5", "status": "current", "updatedAt": "2024-05-02T10:00:00.000Z"},
	}
	for _, in := range inputs {
		first, ok := Normalize(in, testNow, fixedID("x"))
		if !ok {
			t.Fatalf("expected record to normalize: %v", in)
		}
		second, ok := Normalize(asRecord(first), testNow.Add(time.Hour), fixedID("y"))
		if !ok {
			t.Fatalf("expected normalized record to normalize again")
		}
		if first != second {
			t.Fatalf("not idempotent:\n first %+v\nsecond %+v", first, second)
		}
	}
}

func TestNormalizeItemValidatesAndStamps(t *testing.T) {
	t.Parallel()

	_, err := NormalizeItem(Item{Type: "book", Title: "  "}, testNow, fixedID("x"))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}

	_, err = NormalizeItem(Item{Title: "Dune"}, testNow, fixedID("x"))
	if !errors.As(err, &verr) || verr.Field != "type" {
		t.Fatalf("expected type validation error, got %v", err)
	}

	got, err := NormalizeItem(Item{
		Type: " book ", Title: " Dune ", Creator: " Herbert ", Progress: 140, Rating: -2,
		Status: "bogus", UpdatedAt: "2000-01-01T00:00:00.000Z",
	}, testNow, fixedID("new-id"))
	if err != nil {
		t.Fatalf("normalize item: %v", err)
	}
	if got.ID != "new-id" || got.Type != "book" || got.Title != "Dune" || got.Creator != "Herbert" {
		t.Fatalf("unexpected text fields: %+v", got)
	}
	if got.Progress != 100 || got.Rating != 0 || got.Status != StatusPlanned {
		t.Fatalf("unexpected clamped fields: %+v", got)
	}
	if got.UpdatedAt != Timestamp(testNow) {
		t.Fatalf("expected updatedAt to be stamped, got %q", got.UpdatedAt)
	}
}

func asRecord(it Item) map[string]any {
	return map[string]any{
		"id": it.ID, "type": it.Type, "title": it.Title, "creator": it.Creator,
		"status": string(it.Status), "progress": float64(it.Progress), "rating": it.Rating,
		"cover": it.Cover, "notes": it.Notes, "media": it.Media, "link": it.Link,
		"updatedAt": it.UpdatedAt,
	}
}
