package model

import "time"

// DemoSeed is the collection shown when nothing has been saved yet.
func DemoSeed(now time.Time, newID func() string) []Item {
	ts := Timestamp(now)
	return []Item{
		{
			ID: newID(), Type: "anime", Title: "Spy x Family", Creator: "WIT & CloverWorks",
			Status: StatusCurrent, Progress: 48, Rating: 3.5,
			Notes: "Épisodes au café du dimanche ☕️", UpdatedAt: ts,
		},
		{
			ID: newID(), Type: "book", Title: "Le Problème à trois corps", Creator: "Liu Cixin",
			Status: StatusPlanned, UpdatedAt: ts,
		},
		{
			ID: newID(), Type: "movie", Title: "Your Name.", Creator: "Makoto Shinkai",
			Status: StatusDone, Progress: 100, Rating: 5,
			Notes: "Rewatch quand il pleut 🌧️", UpdatedAt: ts,
		},
	}
}
