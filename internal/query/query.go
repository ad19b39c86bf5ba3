// Package query projects the collection into the ordered list a view renders.
// Nothing here mutates its input.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/idilsaglam/watchlist/internal/model"
)

// All disables the type or status filter.
const All = "all"

// QuickListSize bounds the summary lists.
const QuickListSize = 6

type SortKey string

const (
	SortUpdated  SortKey = "updated"
	SortTitle    SortKey = "title"
	SortRating   SortKey = "rating"
	SortProgress SortKey = "progress"
)

// SortKeys lists the accepted sort keys, default first.
func SortKeys() []SortKey {
	return []SortKey{SortUpdated, SortTitle, SortRating, SortProgress}
}

// ParseSort maps a user value to a sort key. Unknown values fall back to updated.
func ParseSort(v string) (SortKey, bool) {
	k := SortKey(strings.ToLower(strings.TrimSpace(v)))
	switch k {
	case SortUpdated, SortTitle, SortRating, SortProgress:
		return k, true
	case "":
		return SortUpdated, true
	default:
		return SortUpdated, false
	}
}

// Params is the view state the presentation layer keeps.
type Params struct {
	Type   string
	Status string
	Search string
	SortBy SortKey
}

// DefaultParams shows everything, most recently touched first.
func DefaultParams() Params {
	return Params{Type: All, Status: All, SortBy: SortUpdated}
}

// Engine holds the collator used for title ordering.
type Engine struct {
	tag language.Tag
}

// New returns an engine collating titles for tag.
func New(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

var defaultEngine = New(language.Und)

// Apply runs the default engine.
func Apply(items []model.Item, p Params) []model.Item {
	return defaultEngine.Apply(items, p)
}

// Apply filters by type, status and search, then sorts stably by p.SortBy.
func (e *Engine) Apply(items []model.Item, p Params) []model.Item {
	typ := normalizeFilter(p.Type)
	status := normalizeFilter(p.Status)
	needle := strings.ToLower(strings.TrimSpace(p.Search))

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if typ != All && it.Type != typ {
			continue
		}
		if status != All && string(it.Status) != status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(it.Title+" "+it.Creator), needle) {
			continue
		}
		out = append(out, it)
	}

	e.sort(out, p.SortBy)
	return out
}

func (e *Engine) sort(items []model.Item, key SortKey) {
	switch key {
	case SortTitle:
		e.sortByTitle(items)
	case SortRating:
		slices.SortStableFunc(items, func(a, b model.Item) int {
			return compareDesc(a.Rating, b.Rating)
		})
	case SortProgress:
		slices.SortStableFunc(items, func(a, b model.Item) int {
			return compareDesc(a.Progress, b.Progress)
		})
	default:
		sortByUpdatedDesc(items)
	}
}

// sortByTitle uses a fresh collator per call; collate.Collator is not safe for
// concurrent use.
func (e *Engine) sortByTitle(items []model.Item) {
	c := collate.New(e.tag)
	slices.SortStableFunc(items, func(a, b model.Item) int {
		return c.CompareString(a.Title, b.Title)
	})
}

func sortByUpdatedDesc(items []model.Item) {
	slices.SortStableFunc(items, func(a, b model.Item) int {
		return b.Updated().Compare(a.Updated())
	})
}

func compareDesc[T int | float64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return All
	}
	return v
}

// CurrentlyActive returns up to n items in progress, most recently touched first.
func (e *Engine) CurrentlyActive(items []model.Item, n int) []model.Item {
	out := filterStatus(items, model.StatusCurrent)
	sortByUpdatedDesc(out)
	return head(out, n)
}

// UpNext returns up to n planned items in title order.
func (e *Engine) UpNext(items []model.Item, n int) []model.Item {
	out := filterStatus(items, model.StatusPlanned)
	e.sortByTitle(out)
	return head(out, n)
}

func CurrentlyActive(items []model.Item, n int) []model.Item {
	return defaultEngine.CurrentlyActive(items, n)
}

func UpNext(items []model.Item, n int) []model.Item {
	return defaultEngine.UpNext(items, n)
}

func filterStatus(items []model.Item, s model.Status) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Status == s {
			out = append(out, it)
		}
	}
	return out
}

func head(items []model.Item, n int) []model.Item {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
