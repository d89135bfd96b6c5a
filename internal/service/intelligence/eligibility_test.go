package intelligence

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

func TestLastAsked_KeepsLatest(t *testing.T) {
	t1 := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	t2 := t1.Add(-4 * time.Hour)

	last := LastAsked([]model.AskedEntry{
		{ScheduledTime: t2, Categories: []model.Category{model.CategorySleep, model.CategoryNutrition}},
		{ScheduledTime: t1, Categories: []model.Category{model.CategorySleep}},
	})

	assert.Equal(t, t1, last[model.CategorySleep])
	assert.Equal(t, t2, last[model.CategoryNutrition])
	_, ok := last[model.CategoryEnvironment]
	assert.False(t, ok)
}

func TestEligible_NeverAsked(t *testing.T) {
	catalog := model.DefaultCatalog()

	eligible, fallback := Eligible(catalog, nil, time.Now())

	assert.False(t, fallback)
	assert.Equal(t, catalog.Categories(), eligible)
}

func TestEligible_AllRecentlyAskedFallsBack(t *testing.T) {
	catalog := model.DefaultCatalog()
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	last := make(map[model.Category]time.Time)
	for _, cat := range catalog.Categories() {
		last[cat] = now.Add(-5 * time.Minute)
	}

	eligible, fallback := Eligible(catalog, last, now)

	assert.True(t, fallback)
	assert.Equal(t, []model.Category{model.CategoryMentalState}, eligible)
}

func TestEligible_BoundaryIsInclusive(t *testing.T) {
	catalog := model.DefaultCatalog()
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	last := map[model.Category]time.Time{
		model.CategoryMentalState: now.Add(-4 * time.Hour),
		model.CategorySleep:       now.Add(-23 * time.Hour),
	}

	eligible, _ := Eligible(catalog, last, now)

	assert.Contains(t, eligible, model.CategoryMentalState)
	assert.NotContains(t, eligible, model.CategorySleep)
}

func TestEligible_RespectsIntervals(t *testing.T) {
	catalog := model.DefaultCatalog()
	cats := catalog.Categories()
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("eligible categories were not asked within their interval", prop.ForAll(
		func(agesMinutes []int) bool {
			last := make(map[model.Category]time.Time)
			for i, age := range agesMinutes {
				if i >= len(cats) {
					break
				}
				if age >= 0 {
					last[cats[i]] = now.Add(-time.Duration(age) * time.Minute)
				}
			}

			eligible, fallback := Eligible(catalog, last, now)
			if len(eligible) == 0 {
				return false
			}
			if fallback {
				return len(eligible) == 1 && eligible[0] == catalog.MostAskable()
			}
			for _, cat := range eligible {
				if asked, ok := last[cat]; ok && now.Sub(asked) < catalog.MinInterval(cat) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(len(cats), gen.IntRange(-1, 48*60)),
	))

	properties.TestingRun(t)
}
