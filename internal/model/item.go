package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is one tracked media entry.
// Field names are the wire names of both the persisted slot and export files.
type Item struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Creator   string  `json:"creator"`
	Status    Status  `json:"status"`
	Progress  int     `json:"progress"`
	Rating    float64 `json:"rating"`
	Cover     string  `json:"cover"`
	Notes     string  `json:"notes"`
	Media     string  `json:"media"`
	Link      string  `json:"link"`
	UpdatedAt string  `json:"updatedAt"`
}

const (
	MinProgress = 0
	MaxProgress = 100
	MinRating   = 0.0
	MaxRating   = 5.0
)

// KnownTypes is the curated set of type tags. Type stays free text; anything
// outside this list is kept as-is and displayed raw.
var KnownTypes = []string{
	"book", "manga", "webtoon", "audiobook",
	"movie", "series", "anime", "reportage", "article",
}

// IsKnownType reports whether t is one of KnownTypes.
func IsKnownType(t string) bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}

// NewID returns a fresh opaque identifier.
func NewID() string { return uuid.NewString() }

// TimestampLayout matches JavaScript's Date.toISOString output.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t the way updatedAt is stored.
func Timestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// ParseTimestamp accepts RFC 3339 (with or without fractional seconds) and
// bare dates. ok is false for anything else.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Updated returns the parsed updatedAt, or the zero time when it cannot be parsed.
func (it Item) Updated() time.Time {
	t, _ := ParseTimestamp(it.UpdatedAt)
	return t
}

// TitleKey is the case- and whitespace-insensitive form of a title used to
// match records that do not share an id.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
