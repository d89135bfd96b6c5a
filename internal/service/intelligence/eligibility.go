package intelligence

import (
	"time"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

// LastAsked maps each category to the latest scheduled time among the
// reminders that included it.
func LastAsked(entries []model.AskedEntry) map[model.Category]time.Time {
	last := make(map[model.Category]time.Time)
	for _, e := range entries {
		for _, cat := range e.Categories {
			if prev, ok := last[cat]; !ok || e.ScheduledTime.After(prev) {
				last[cat] = e.ScheduledTime
			}
		}
	}
	return last
}

// Eligible returns the categories whose minimum re-ask interval has elapsed
// at now, in catalog order. Categories never asked are always eligible.
// When nothing qualifies the most askable category is returned alone and
// fallback is true.
func Eligible(catalog *model.Catalog, lastAsked map[model.Category]time.Time, now time.Time) (eligible []model.Category, fallback bool) {
	for _, cat := range catalog.Categories() {
		asked, ok := lastAsked[cat]
		if !ok || now.Sub(asked) >= catalog.MinInterval(cat) {
			eligible = append(eligible, cat)
		}
	}

	if len(eligible) == 0 {
		return []model.Category{catalog.MostAskable()}, true
	}

	return eligible, false
}
