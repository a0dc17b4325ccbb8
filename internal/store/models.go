package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Location is one entry in a screen's navigation history.
type Location struct {
	ID        int64
	Screen    string
	Location  string
	CreatedAt time.Time
}
