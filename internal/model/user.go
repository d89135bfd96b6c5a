package model

import (
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var (
	DefaultWakeTime       = ClockTime(8 * 60)
	DefaultScreensOffTime = ClockTime(21 * 60)
)

// ClockTime is a wall-clock time of day in minutes since local midnight.
type ClockTime int

// NewClockTime builds a ClockTime, wrapping out-of-range values into a day.
func NewClockTime(hour, minute int) ClockTime {
	m := (hour*60 + minute) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return ClockTime(m)
}

// ParseClockTime accepts "15:04" or "15:04:05" (as returned for TIME columns).
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// User is the profile slice the scheduler reads. Location is resolved when
// the profile is loaded and is never nil.
type User struct {
	ID             int64
	Name           string
	Timezone       string
	Location       *time.Location
	WakeTime       *ClockTime
	SleepTime      *ClockTime
	ScreensOffTime *ClockTime
}

// Window returns the local wake and end-of-day times with defaults applied.
// The end falls back from screens-off to sleep time to 21:00.
func (u User) Window() (wake, end ClockTime) {
	wake = DefaultWakeTime
	if u.WakeTime != nil {
		wake = *u.WakeTime
	}

	end = DefaultScreensOffTime
	switch {
	case u.ScreensOffTime != nil:
		end = *u.ScreensOffTime
	case u.SleepTime != nil:
		end = *u.SleepTime
	}

	return wake, end
}

// Response is a user's answer as seen by the scheduler. Category is nil for
// ad-hoc entries.
type Response struct {
	ID           int64     `json:"id"`
	ReminderID   *int64    `json:"reminder_id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     *string   `json:"category"`
	QuestionText string    `json:"question_text"`
	ResponseText string    `json:"response_text"`
}

// ResponseQuery narrows a response history read.
type ResponseQuery struct {
	UserID   int64
	Category *Category
	Since    *time.Time
	Limit    int
}

// LoadLocation resolves an IANA zone name. Empty and unknown names resolve to
// UTC; for unknown names the error says why.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("load location %q: %w", name, err)
	}

	return loc, nil
}
