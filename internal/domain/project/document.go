package project

import "time"

// TimestampLayout renders times as "YYYY-MM-DD HH:MM:SS UTC".
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Document is the public view of a project returned on retrieve.
type Document struct {
	Desc      string          `json:"desc"`
	Created   string          `json:"created"`
	ResID     string          `json:"resid"`
	Owner     string          `json:"owner"`
	Responses []ResponseEntry `json:"responses"`
	Status    Status          `json:"status"`
}

// ResponseEntry is a single response inside a Document.
type ResponseEntry struct {
	Response string `json:"response"`
	Date     string `json:"date"`
}

// NewDocument builds the public view. Responses is never nil so it encodes as [].
func NewDocument(proj *Project, responses []Response) *Document {
	entries := make([]ResponseEntry, 0, len(responses))
	for _, r := range responses {
		entries = append(entries, ResponseEntry{
			Response: r.Text,
			Date:     FormatTimestamp(r.CreatedAt),
		})
	}
	return &Document{
		Desc:      proj.Desc,
		Created:   FormatTimestamp(proj.CreatedAt),
		ResID:     proj.ResID,
		Owner:     proj.Owner,
		Responses: entries,
		Status:    StatusFor(len(entries)),
	}
}
