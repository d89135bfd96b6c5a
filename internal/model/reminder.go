package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown reminder status")
)

// Status is the lifecycle state of a reminder.
type Status string

const (
	StatusScheduled    Status = "scheduled"
	StatusSent         Status = "sent"
	StatusAcknowledged Status = "acknowledged"
	StatusCompleted    Status = "completed"
	StatusMissed       Status = "missed"
)

// transitions lists the states reachable from each state. Terminal states
// have no entry.
var transitions = map[Status][]Status{
	StatusScheduled:    {StatusSent, StatusAcknowledged, StatusCompleted, StatusMissed},
	StatusSent:         {StatusAcknowledged, StatusCompleted, StatusMissed},
	StatusAcknowledged: {StatusCompleted},
}

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusSent, StatusAcknowledged, StatusCompleted, StatusMissed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusMissed
}

// CanTransition reports whether a reminder in state from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedSources returns every state from which to is reachable.
func AllowedSources(to Status) []Status {
	var out []Status
	for _, from := range []Status{StatusScheduled, StatusSent, StatusAcknowledged} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Question is one entry of a reminder's questionnaire.
type Question struct {
	Key  string
	Text string
}

// Questions is an ordered question-key to question-text mapping. It encodes
// as a JSON object and keeps key order when decoded.
type Questions []Question

// NumberQuestions keys texts q1, q2, ... in order.
func NumberQuestions(texts []string) Questions {
	qs := make(Questions, 0, len(texts))
	for i, t := range texts {
		qs = append(qs, Question{Key: fmt.Sprintf("q%d", i+1), Text: t})
	}
	return qs
}

// MarshalJSON encodes the questions as an object in slice order.
func (q Questions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(item.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string values, rejecting duplicate keys.
func (q *Questions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("questions: expected object")
	}

	out := Questions{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("questions: value for %q: %w", key, err)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("questions: duplicate key %q", key)
		}
		seen[key] = struct{}{}
		out = append(out, Question{Key: key, Text: text})
	}

	*q = out
	return nil
}

// Reminder is a scheduled check-in carrying one or more questions.
type Reminder struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	ScheduledTime time.Time  `json:"scheduled_time"` // UTC, immutable after creation
	SentTime      *time.Time `json:"sent_time"`
	Questions     Questions  `json:"questions"`
	Categories    []Category `json:"categories"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AskedEntry is the slice of a reminder needed to compute last-asked times.
type AskedEntry struct {
	ScheduledTime time.Time
	Categories    []Category
}

// ReminderFilter narrows reminder listings.
type ReminderFilter struct {
	UserID *int64
	Status *Status
	Offset int
	Limit  int
}
