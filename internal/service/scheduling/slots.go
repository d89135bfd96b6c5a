package scheduling

import (
	"time"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

const (
	minutesPerDay = 24 * 60

	minSlots         = 2
	maxSlots         = 4
	questionsPerSlot = 3
)

// SlotCount returns how many reminders a day's questions are spread over:
// one per three questions, clamped to [2, 4]. No questions means no slots.
func SlotCount(totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}

	n := totalQuestions / questionsPerSlot
	if n < minSlots {
		n = minSlots
	}
	if n > maxSlots {
		n = maxSlots
	}

	return n
}

// SlotMinutes places n slots evenly inside the local window [wake, end),
// excluding both edges, and returns their minute of day. An end at or
// before wake wraps past midnight.
func SlotMinutes(wake, end model.ClockTime, n int) []int {
	if n <= 0 {
		return nil
	}

	start, stop := int(wake), int(end)
	if stop <= start {
		stop += minutesPerDay
	}

	interval := (stop - start) / (n + 1)

	minutes := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		minutes = append(minutes, (start+interval*i)%minutesPerDay)
	}

	return minutes
}

// LocalInstant returns the instant at minute of day on the calendar date that
// now has in loc.
func LocalInstant(now time.Time, loc *time.Location, minute int) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
}

// Distribute splits items across slots in order. Every slot gets
// len/slots items and the last one also takes the remainder, so leading
// slots may be empty when there are fewer items than slots.
func Distribute[T any](items []T, slots int) [][]T {
	if slots <= 0 {
		return nil
	}

	per := len(items) / slots
	chunks := make([][]T, slots)
	for i := 0; i < slots; i++ {
		from := i * per
		to := from + per
		if i == slots-1 {
			to = len(items)
		}
		chunks[i] = items[from:to]
	}

	return chunks
}
