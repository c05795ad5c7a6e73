package domain

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleEvent(t *testing.T, eventType, ts string) Event {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", ts, err)
	}
	return Event{
		ID:        uuid.New(),
		EventType: eventType,
		Timestamp: parsed.UTC(),
		Payload:   json.RawMessage(`{"test":true}`),
	}
}

func TestParseEventQuery_Empty(t *testing.T) {
	q, err := ParseEventQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.EventType != nil || q.Start != nil || q.End != nil {
		t.Errorf("empty parameters should produce an unconstrained query, got %+v", q)
	}
}

func TestParseEventQuery_AllParams(t *testing.T) {
	values := url.Values{}
	values.Set("event_type", "login")
	values.Set("start", "2025-01-01T00:00:00Z")
	values.Set("end", "2025-01-01T23:59:59Z")

	q, err := ParseEventQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.EventType == nil || *q.EventType != "login" {
		t.Errorf("event_type: got %v, want login", q.EventType)
	}
	if q.Start == nil || !q.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start: got %v", q.Start)
	}
	if q.End == nil || !q.End.Equal(time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end: got %v", q.End)
	}
}

func TestParseEventQuery_BadStart(t *testing.T) {
	values := url.Values{}
	values.Set("start", "about1pmontuesday")

	_, err := ParseEventQuery(values)
	assertValidationError(t, err, "start")
}

func TestParseEventQuery_BadEnd(t *testing.T) {
	values := url.Values{}
	values.Set("end", "")

	_, err := ParseEventQuery(values)
	assertValidationError(t, err, "end")
}

// Unrecognized parameters impose no constraint; a typo like "strat" silently
// yields the unfiltered query.
func TestParseEventQuery_UnknownParamsIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("strat", "2025-01-02T00:00:00Z")
	values.Set("limit", "10")

	q, err := ParseEventQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.EventType != nil || q.Start != nil || q.End != nil {
		t.Errorf("unknown parameters should be ignored, got %+v", q)
	}
}

// A present-but-empty event_type filters on the empty string rather than
// being dropped, so it matches no stored event.
func TestParseEventQuery_EmptyEventTypeIsPresent(t *testing.T) {
	values, err := url.ParseQuery("event_type=")
	if err != nil {
		t.Fatalf("parsing query string: %v", err)
	}

	q, err := ParseEventQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.EventType == nil || *q.EventType != "" {
		t.Errorf("event_type: got %v, want pointer to empty string", q.EventType)
	}
	if q.Matches(sampleEvent(t, "login", "2025-01-01T12:00:00Z")) {
		t.Error("empty event_type filter should not match a typed event")
	}
}

func TestEventQuery_Matches(t *testing.T) {
	login := sampleEvent(t, "login", "2025-01-01T12:00:00Z")

	strPtr := func(s string) *string { return &s }
	timePtr := func(t2 time.Time) *time.Time { return &t2 }
	at := func(ts string) *time.Time {
		parsed, _ := time.Parse(time.RFC3339, ts)
		return timePtr(parsed.UTC())
	}

	tests := []struct {
		name  string
		query EventQuery
		want  bool
	}{
		{"empty query matches everything", EventQuery{}, true},
		{"type match", EventQuery{EventType: strPtr("login")}, true},
		{"type mismatch", EventQuery{EventType: strPtr("logout")}, false},
		{"type is case sensitive", EventQuery{EventType: strPtr("Login")}, false},
		{"start before timestamp", EventQuery{Start: at("2025-01-01T00:00:00Z")}, true},
		{"start equal to timestamp is inclusive", EventQuery{Start: at("2025-01-01T12:00:00Z")}, true},
		{"start after timestamp", EventQuery{Start: at("2025-01-01T13:00:00Z")}, false},
		{"end after timestamp", EventQuery{End: at("2025-01-01T23:00:00Z")}, true},
		{"end equal to timestamp is inclusive", EventQuery{End: at("2025-01-01T12:00:00Z")}, true},
		{"end before timestamp", EventQuery{End: at("2025-01-01T11:00:00Z")}, false},
		{
			"all conditions combined",
			EventQuery{EventType: strPtr("login"), Start: at("2025-01-01T00:00:00Z"), End: at("2025-01-01T23:59:59Z")},
			true,
		},
		{
			"one failing condition rejects",
			EventQuery{EventType: strPtr("login"), Start: at("2025-01-01T00:00:00Z"), End: at("2025-01-01T11:00:00Z")},
			false,
		},
		{
			"start after end matches nothing",
			EventQuery{Start: at("2025-01-02T00:00:00Z"), End: at("2025-01-01T00:00:00Z")},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(login); got != tt.want {
				t.Errorf("Matches: got %v, want %v", got, tt.want)
			}
		})
	}
}
