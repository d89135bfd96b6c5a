package scheduling

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

func TestSlotCount(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 2},
		{5, 2},
		{6, 2},
		{9, 3},
		{12, 4},
		{40, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SlotCount(tt.total), "total=%d", tt.total)
	}
}

func TestSlotMinutes_EvenSpacing(t *testing.T) {
	got := SlotMinutes(model.NewClockTime(8, 0), model.NewClockTime(20, 0), 3)

	assert.Equal(t, []int{11 * 60, 14 * 60, 17 * 60}, got)
}

func TestSlotMinutes_SingleSlotIsMidpoint(t *testing.T) {
	got := SlotMinutes(model.NewClockTime(8, 0), model.NewClockTime(20, 0), 1)

	assert.Equal(t, []int{14 * 60}, got)
}

func TestSlotMinutes_OvernightWindow(t *testing.T) {
	got := SlotMinutes(model.NewClockTime(10, 0), model.NewClockTime(2, 0), 4)

	require.Len(t, got, 4)
	// 16h window, interval 192 minutes
	assert.Equal(t, []int{13*60 + 12, 16*60 + 24, 19*60 + 36, 22*60 + 48}, got)
	for _, m := range got {
		assert.GreaterOrEqual(t, m, 0)
		assert.Less(t, m, minutesPerDay)
	}
}

func TestSlotMinutes_WindowContainment(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("slots fall strictly inside the wrapped window", prop.ForAll(
		func(wake, end, n int) bool {
			span := end - wake
			if span <= 0 {
				span += minutesPerDay
			}

			for _, m := range SlotMinutes(model.ClockTime(wake), model.ClockTime(end), n) {
				if m < 0 || m >= minutesPerDay {
					return false
				}
				offset := (m - wake + minutesPerDay) % minutesPerDay
				if offset >= span {
					return false
				}
				if span > n && offset == 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, minutesPerDay-1),
		gen.IntRange(0, minutesPerDay-1),
		gen.IntRange(1, maxSlots),
	))

	properties.TestingRun(t)
}

func TestLocalInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	at := LocalInstant(now, loc, 12*60)

	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), at.UTC())

	// 02:00 UTC on the 3rd is still the 2nd in New York.
	late := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, LocalInstant(late, loc, 8*60).Day())
}

func TestDistribute(t *testing.T) {
	qs := []string{"a", "b", "c", "d", "e", "f", "g"}

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e", "f", "g"}}, Distribute(qs, 3))
	assert.Equal(t, [][]string{{}, {"a"}}, Distribute(qs[:1], 2))
	assert.Nil(t, Distribute(qs, 0))
}
