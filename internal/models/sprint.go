package models

import "time"

// Sprint is a time-boxed planning window.
type Sprint struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Capacity  *float64  `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether now falls inside the sprint window.
func (s Sprint) Active(now time.Time) bool {
	return !now.Before(s.StartDate) && now.Before(s.EndDate)
}

// Ended reports whether the sprint window is over.
func (s Sprint) Ended(now time.Time) bool {
	return !now.Before(s.EndDate)
}

// HasCapacity reports whether a planning capacity was set.
func (s Sprint) HasCapacity() bool {
	return s.Capacity != nil && *s.Capacity > 0
}
