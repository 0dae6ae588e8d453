package service

import (
	"time"

	"github.com/courtside/tournament-registry/internal/tournament"
)

// Calendar is the time source shared by services. Deadlines are compared against
// the calendar day in Location.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemCalendar(loc *time.Location) Calendar {
	return Calendar{Now: time.Now, Location: loc}
}

func (c Calendar) now() time.Time {
	return c.Now().UTC()
}

func (c Calendar) today() tournament.Date {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return tournament.DateOf(c.Now(), loc)
}
