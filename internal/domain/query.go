package domain

import (
	"net/url"
	"time"
)

// EventQuery is a filter specification for listing events. Every field is
// independently optional; an absent field imposes no constraint.
type EventQuery struct {
	EventType *string
	Start     *time.Time
	End       *time.Time
}

// ParseEventQuery builds an EventQuery from request query parameters.
// A present start/end must parse as RFC 3339 or a *ValidationError naming the
// parameter is returned; event_type is taken as-is (case-sensitive exact
// match, no normalization). Parameters other than event_type/start/end are
// ignored.
func ParseEventQuery(values url.Values) (EventQuery, error) {
	var q EventQuery

	if values.Has("event_type") {
		t := values.Get("event_type")
		q.EventType = &t
	}

	if values.Has("start") {
		ts, err := time.Parse(time.RFC3339, values.Get("start"))
		if err != nil {
			return EventQuery{}, &ValidationError{Field: "start", Reason: "must be a valid RFC 3339 timestamp"}
		}
		ts = ts.UTC()
		q.Start = &ts
	}

	if values.Has("end") {
		ts, err := time.Parse(time.RFC3339, values.Get("end"))
		if err != nil {
			return EventQuery{}, &ValidationError{Field: "end", Reason: "must be a valid RFC 3339 timestamp"}
		}
		ts = ts.UTC()
		q.End = &ts
	}

	return q, nil
}

// Matches reports whether the event satisfies every present condition:
// exact event_type equality, timestamp >= start, timestamp <= end (both
// bounds inclusive). Absent conditions are vacuously true, so the empty
// query matches everything. A query with start after end matches nothing;
// that is a valid query, not an error.
func (q EventQuery) Matches(e Event) bool {
	if q.EventType != nil && e.EventType != *q.EventType {
		return false
	}
	if q.Start != nil && e.Timestamp.Before(*q.Start) {
		return false
	}
	if q.End != nil && e.Timestamp.After(*q.End) {
		return false
	}
	return true
}
