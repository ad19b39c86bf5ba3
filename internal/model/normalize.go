package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValidationError reports a record that breaks an item invariant.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Field {
	case "title", "type", "id":
		return fmt.Sprintf("validation: %s is required", e.Field)
	default:
		return fmt.Sprintf("validation: %s is out of range", e.Field)
	}
}

// Validate checks every invariant a stored item must hold.
func Validate(it Item) error {
	if err := requireFields(it); err != nil {
		return err
	}
	if strings.TrimSpace(it.ID) == "" {
		return &ValidationError{Field: "id"}
	}
	if !it.Status.Valid() {
		return &ValidationError{Field: "status"}
	}
	if it.Progress < MinProgress || it.Progress > MaxProgress {
		return &ValidationError{Field: "progress"}
	}
	if math.IsNaN(it.Rating) || it.Rating < MinRating || it.Rating > MaxRating {
		return &ValidationError{Field: "rating"}
	}
	return nil
}

func requireFields(it Item) error {
	if strings.TrimSpace(it.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(it.Type) == "" {
		return &ValidationError{Field: "type"}
	}
	return nil
}

// Normalize turns a loosely typed decoded record into an Item.
//
// ok is false when raw is not an object or when title or type is empty after
// coercion; such records are unusable and callers skip them. Normalize has no
// side effects: the clock reading and id generator are supplied by the caller.
func Normalize(raw any, now time.Time, newID func() string) (Item, bool) {
	rec, isObject := raw.(map[string]any)
	if !isObject {
		return Item{}, false
	}

	title := strings.TrimSpace(toText(rec["title"]))
	typ := strings.TrimSpace(toText(rec["type"]))
	if title == "" || typ == "" {
		return Item{}, false
	}

	it := Item{
		ID:        strings.TrimSpace(toText(rec["id"])),
		Type:      typ,
		Title:     title,
		Creator:   toText(rec["creator"]),
		Status:    Status(toText(rec["status"])),
		Progress:  clampProgress(toNumber(rec["progress"])),
		Rating:    clampRating(toNumber(rec["rating"])),
		Cover:     toText(rec["cover"]),
		Notes:     toText(rec["notes"]),
		Media:     toText(rec["media"]),
		Link:      toText(rec["link"]),
		UpdatedAt: strings.TrimSpace(toText(rec["updatedAt"])),
	}
	if it.ID == "" {
		it.ID = newID()
	}
	if !it.Status.Valid() {
		it.Status = StatusPlanned
	}
	if it.UpdatedAt == "" {
		it.UpdatedAt = Timestamp(now)
	}
	return it, true
}

// NormalizeItem prepares a submitted item for storage: text is trimmed, numbers
// clamped, status defaulted, a missing id generated and updatedAt stamped with now.
func NormalizeItem(it Item, now time.Time, newID func() string) (Item, error) {
	it.ID = strings.TrimSpace(it.ID)
	it.Type = strings.TrimSpace(it.Type)
	it.Title = strings.TrimSpace(it.Title)
	it.Creator = strings.TrimSpace(it.Creator)
	it.Cover = strings.TrimSpace(it.Cover)
	it.Notes = strings.TrimSpace(it.Notes)
	it.Media = strings.TrimSpace(it.Media)
	it.Link = strings.TrimSpace(it.Link)
	if err := requireFields(it); err != nil {
		return Item{}, err
	}
	if it.ID == "" {
		it.ID = newID()
	}
	if !it.Status.Valid() {
		it.Status = StatusPlanned
	}
	it.Progress = clampProgress(float64(it.Progress))
	it.Rating = clampRating(it.Rating)
	it.UpdatedAt = Timestamp(now)
	return it, nil
}

func clampProgress(n float64) int {
	return int(math.Round(clamp(n, MinProgress, MaxProgress)))
}

func clampRating(n float64) float64 {
	return clamp(n, MinRating, MaxRating)
}

func clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}

// toNumber coerces a decoded JSON value to a number. Anything non-numeric is 0.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// toText coerces scalars to their string form. Objects, arrays and null become "".
func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
