package intelligence

import (
	"time"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

// Coverage summarises a user's responses inside the lookback window.
type Coverage struct {
	Covered      []model.Category // catalog order
	Gaps         []model.Category // catalog order
	Counts       map[model.Category]int
	LastResponse map[model.Category]time.Time
	Total        int // every response in the window, tagged or not

	// Quarantined counts responses whose tag is outside the catalog. They
	// never count as coverage.
	Quarantined int
}

// AnalyzeCoverage classifies every catalog category as covered or gap from
// responses already restricted to the lookback window.
func AnalyzeCoverage(catalog *model.Catalog, responses []model.Response) Coverage {
	cov := Coverage{
		Counts:       make(map[model.Category]int),
		LastResponse: make(map[model.Category]time.Time),
		Total:        len(responses),
	}

	for _, r := range responses {
		if r.Category == nil {
			continue
		}

		cat, err := model.ParseCategory(*r.Category)
		if err != nil {
			cov.Quarantined++
			continue
		}

		cov.Counts[cat]++
		if last, ok := cov.LastResponse[cat]; !ok || r.Timestamp.After(last) {
			cov.LastResponse[cat] = r.Timestamp
		}
	}

	for _, cat := range catalog.Categories() {
		if cov.Counts[cat] > 0 {
			cov.Covered = append(cov.Covered, cat)
		} else {
			cov.Gaps = append(cov.Gaps, cat)
		}
	}

	return cov
}
