// Package sleep implements the sleep-record query and mutation pipeline:
// the SQLite repository, the domain service that validates and maps records
// to transfer views, and the HTTP handler serving /api/sleeps.
package sleep

import (
	"strconv"
	"time"
)

// Record is a persisted sleep interval. Rows are never physically removed;
// deletion flips IsDeleted and every read path filters it out.
type Record struct {
	ID        int64     `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	IsDeleted bool      `json:"isDeleted"`
}

// DurationHours is the computed length of the interval in hours.
// It is derived on demand and never persisted.
func (r Record) DurationHours() float64 {
	return r.End.Sub(r.Start).Hours()
}

// View is the transfer representation of a Record: timestamps as ISO-8601
// strings and the duration as a decimal-hours string.
type View struct {
	ID            int64  `json:"id"`
	Start         string `json:"start"`
	End           string `json:"end"`
	DurationHours string `json:"durationHours"`
}

// NewView maps a record to its transfer representation.
func NewView(r Record) View {
	return View{
		ID:            r.ID,
		Start:         formatTime(r.Start),
		End:           formatTime(r.End),
		DurationHours: formatHours(r.DurationHours()),
	}
}

// CreateRequest is the JSON body for POST /api/sleeps.
type CreateRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpdateRequest is the JSON body for PUT /api/sleeps/{id}.
type UpdateRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// timeLayouts are the accepted timestamp formats, tried in order. The SPA
// clients send RFC 3339 with a zone suffix; the bare layout tolerates naive
// local timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses an ISO-8601 timestamp string, normalized to UTC and
// truncated to seconds. Storage holds second-precision text, so keeping
// sub-second input would make a create response disagree with every
// subsequent read of the same record.
func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, err
}

// formatTime renders a timestamp in the RFC 3339 form stored and served.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatHours renders decimal hours in their shortest form ("8", "8.5").
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}
