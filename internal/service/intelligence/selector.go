package intelligence

import (
	"sort"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

// Selection is the outcome of target selection for one scheduling cycle.
type Selection struct {
	Targets  []model.Category
	Gaps     []model.Category // eligible gaps
	Covered  []model.Category // eligible covered, stalest first
	Eligible []model.Category
	Fallback bool // eligibility fell back to the most askable category
}

// RecentTargets counts targets that were picked from covered categories.
func (s Selection) RecentTargets() int {
	n := 0
	for _, t := range s.Targets {
		if contains(s.Covered, t) {
			n++
		}
	}
	return n
}

// Select picks at most max target categories. Gaps come first in catalog
// order, then covered categories with the oldest last response. If both are
// empty the eligible list is used, and as a last resort the catalog's most
// askable category.
func Select(catalog *model.Catalog, cov Coverage, eligible []model.Category, fallback bool, max int) Selection {
	sel := Selection{Eligible: eligible, Fallback: fallback}

	for _, cat := range cov.Gaps {
		if contains(eligible, cat) {
			sel.Gaps = append(sel.Gaps, cat)
		}
	}
	for _, cat := range cov.Covered {
		if contains(eligible, cat) {
			sel.Covered = append(sel.Covered, cat)
		}
	}
	sort.SliceStable(sel.Covered, func(i, j int) bool {
		return cov.LastResponse[sel.Covered[i]].Before(cov.LastResponse[sel.Covered[j]])
	})

	sel.Targets = appendUpTo(sel.Targets, sel.Gaps, max)
	sel.Targets = appendUpTo(sel.Targets, sel.Covered, max)

	if len(sel.Targets) == 0 {
		sel.Targets = appendUpTo(sel.Targets, eligible, max)
	}
	if len(sel.Targets) == 0 {
		sel.Targets = []model.Category{catalog.MostAskable()}
	}

	return sel
}

func appendUpTo(dst, src []model.Category, max int) []model.Category {
	for _, cat := range src {
		if len(dst) >= max {
			break
		}
		dst = append(dst, cat)
	}
	return dst
}

func contains(list []model.Category, cat model.Category) bool {
	for _, c := range list {
		if c == cat {
			return true
		}
	}
	return false
}
