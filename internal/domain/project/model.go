package project

import "time"

// Project is a tracked request. ID is internal; ResID is the only key handed out.
type Project struct {
	ID        int64
	ResID     string
	Desc      string
	Owner     string
	IP        string
	CreatedAt time.Time
}

// Response is a reply attached to exactly one project.
type Response struct {
	ID        int64
	ProjectID int64
	Text      string
	CreatedAt time.Time
}

// Status is derived from the number of responses and never stored.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusResponded Status = "Responded"
	StatusUpdated   Status = "Updated"
)

// StatusFor maps a response count to a status.
func StatusFor(responses int) Status {
	switch {
	case responses <= 0:
		return StatusOpen
	case responses == 1:
		return StatusResponded
	default:
		return StatusUpdated
	}
}

// LocalIP is recorded when the caller's address is unavailable.
const LocalIP = "LOCAL"
