package model

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusScheduled, StatusSent, StatusAcknowledged, StatusCompleted, StatusMissed}

// rank orders statuses so that every allowed transition strictly increases it.
func rank(s Status) int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusSent:
		return 1
	case StatusAcknowledged, StatusMissed:
		return 2
	default:
		return 3
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusScheduled, StatusSent))
	assert.True(t, CanTransition(StatusSent, StatusAcknowledged))
	assert.True(t, CanTransition(StatusScheduled, StatusAcknowledged))
	assert.True(t, CanTransition(StatusAcknowledged, StatusCompleted))
	assert.True(t, CanTransition(StatusSent, StatusMissed))

	assert.False(t, CanTransition(StatusSent, StatusScheduled))
	assert.False(t, CanTransition(StatusAcknowledged, StatusMissed))
	assert.False(t, CanTransition(StatusMissed, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusSent))
	assert.False(t, CanTransition(StatusSent, StatusSent))
}

func TestAllowedSources(t *testing.T) {
	assert.Equal(t, []Status{StatusScheduled, StatusSent, StatusAcknowledged}, AllowedSources(StatusCompleted))
	assert.Equal(t, []Status{StatusScheduled}, AllowedSources(StatusSent))
	assert.Equal(t, []Status{StatusScheduled, StatusSent}, AllowedSources(StatusMissed))
	assert.Empty(t, AllowedSources(StatusScheduled))
}

func TestStatusSequencesNeverRegress(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("applied transitions strictly increase rank", prop.ForAll(
		func(steps []int) bool {
			current := StatusScheduled
			for _, step := range steps {
				next := allStatuses[step]
				if !CanTransition(current, next) {
					continue
				}
				if rank(next) <= rank(current) {
					return false
				}
				current = next
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(allStatuses)-1)),
	))

	properties.Property("terminal states have no exits", prop.ForAll(
		func(i int) bool {
			for _, from := range []Status{StatusCompleted, StatusMissed} {
				if CanTransition(from, allStatuses[i]) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, len(allStatuses)-1),
	))

	properties.TestingRun(t)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("acknowledged")
	require.NoError(t, err)
	assert.Equal(t, StatusAcknowledged, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestQuestions_JSONKeepsOrder(t *testing.T) {
	qs := NumberQuestions([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"})

	data, err := json.Marshal(qs)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	var decoded Questions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, qs, decoded)
	assert.Equal(t, "q10", decoded[9].Key)
}

func TestQuestions_UnmarshalRejectsDuplicates(t *testing.T) {
	var qs Questions
	err := json.Unmarshal([]byte(`{"q1":"a","q1":"b"}`), &qs)
	assert.Error(t, err)
}

func TestQuestions_EmptyObject(t *testing.T) {
	data, err := json.Marshal(Questions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
