package domain

import "time"

// ActiveSession records a live timer session so other views can tell
// what is being tracked. It disappears once the session is stopped.
type ActiveSession struct {
	ID           string
	TaskID       string
	UserID       string
	Status       TimerStatus
	StartedAt    time.Time
	LastActiveAt time.Time
}
