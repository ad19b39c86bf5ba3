package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotSequence is returned when a serialized collection is not a list of records.
var ErrNotSequence = errors.New("document is not a list of records")

// DecodeStats describes what DecodeCollection did with the input records.
type DecodeStats struct {
	Records    int // records present in the document
	Dropped    int // unusable records skipped by Normalize
	Duplicates int // records folded into an earlier record with the same id
}

// DecodeCollection parses a JSON array of records and normalizes each one.
//
// A record whose id repeats an earlier record replaces it in place, so the
// result never carries duplicate ids. Any parse failure or a top-level value
// other than an array wraps ErrNotSequence; nothing is returned in that case.
func DecodeCollection(data []byte, now time.Time, newID func() string) ([]Item, DecodeStats, error) {
	var stats DecodeStats

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, stats, fmt.Errorf("%w: %v", ErrNotSequence, err)
	}
	records, ok := raw.([]any)
	if !ok {
		return nil, stats, fmt.Errorf("%w: top-level value is %s", ErrNotSequence, jsonKind(raw))
	}

	stats.Records = len(records)
	out := make([]Item, 0, len(records))
	byID := make(map[string]int, len(records))
	for _, rec := range records {
		it, ok := Normalize(rec, now, newID)
		if !ok {
			stats.Dropped++
			continue
		}
		if idx, seen := byID[it.ID]; seen {
			out[idx] = it
			stats.Duplicates++
			continue
		}
		byID[it.ID] = len(out)
		out = append(out, it)
	}
	return out, stats, nil
}

// EncodeCollection renders items as an indented JSON array. A nil slice encodes as [].
func EncodeCollection(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
