package model

import "strings"

type Status string

const (
	StatusPlanned Status = "planned"
	StatusCurrent Status = "current"
	StatusPaused  Status = "paused"
	StatusDropped Status = "dropped"
	StatusDone    Status = "done"
)

// statusFlow is the quick-cycle order. It differs from the declaration order
// above: done comes before dropped.
var statusFlow = []Status{StatusPlanned, StatusCurrent, StatusPaused, StatusDone, StatusDropped}

// Statuses returns every valid status in cycle order.
func Statuses() []Status {
	out := make([]Status, len(statusFlow))
	copy(out, statusFlow)
	return out
}

func (s Status) Valid() bool {
	for _, v := range statusFlow {
		if v == s {
			return true
		}
	}
	return false
}

// Next advances one step in the cycle. A status outside the cycle restarts at planned.
func (s Status) Next() Status {
	idx := -1
	for i, v := range statusFlow {
		if v == s {
			idx = i
			break
		}
	}
	return statusFlow[(idx+1)%len(statusFlow)]
}

func (s Status) String() string { return string(s) }

// ParseStatus is strict: ok is false for unknown values.
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", false
	}
	return s, true
}
