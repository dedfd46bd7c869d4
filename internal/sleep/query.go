package sleep

import (
	"strings"
	"time"
)

// Pagination defaults and cap. Oversized page sizes are clamped, not rejected.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PageQuery controls filtering, sorting, and pagination for list queries.
// All filter fields are optional and combine conjunctively.
type PageQuery struct {
	Page             int        // 1-based, default 1.
	PageSize         int        // Default 10, clamped to MaxPageSize.
	SortBy           string     // One of start, end, durationHours, id (case-insensitive).
	SortAscending    *bool      // When nil, direction depends on the sort key.
	Start            *time.Time // Exact calendar-day match on the start timestamp.
	End              *time.Time // Exact calendar-day match on the end timestamp.
	MinDurationHours *float64   // Inclusive lower bound on computed duration.
	MaxDurationHours *float64   // Inclusive upper bound on computed duration.
}

// normalize applies defaults and the page-size cap.
func (q PageQuery) normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// durationExpr computes the interval length in hours inside SQLite.
// Timestamps are stored as RFC 3339 UTC text, which unixepoch understands.
// Integer-second arithmetic keeps exact-hour durations exact, so the
// inclusive bound predicates match records sitting on the bound.
const durationExpr = "(unixepoch(end_time) - unixepoch(start_time)) / 3600.0"

// sortColumns maps normalized sort keys to ORDER BY expressions.
var sortColumns = map[string]string{
	"id":            "id",
	"start":         "start_time",
	"end":           "end_time",
	"durationhours": durationExpr,
}

// resolveSort returns the ORDER BY expression and direction for the query.
// Unrecognized keys fall back to id. When no explicit direction is given,
// id sorts descending (newest first) and every other key ascending.
func (q PageQuery) resolveSort() (expr string, ascending bool) {
	key := strings.ToLower(strings.TrimSpace(q.SortBy))
	expr, ok := sortColumns[key]
	if !ok {
		key, expr = "id", "id"
	}
	if q.SortAscending != nil {
		return expr, *q.SortAscending
	}
	return expr, key != "id"
}
