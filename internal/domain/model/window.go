package model

import (
	"fmt"
	"time"
)

// Window is the closed date range a collection run covers. Pull requests are
// kept when their closed time falls inside the window.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and returns a Window. End must not precede Start.
func NewWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("window end %s precedes start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
