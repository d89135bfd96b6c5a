package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownCategory is returned when a category tag is outside the catalog.
var ErrUnknownCategory = errors.New("unknown category")

// Category is a trackable health area a check-in question can be about.
type Category string

const (
	CategorySleep             Category = "sleep"
	CategoryNutrition         Category = "nutrition"
	CategoryPhysicalActivity  Category = "physical_activity"
	CategorySubstances        Category = "substances"
	CategoryMentalState       Category = "mental_state"
	CategoryStressAnxiety     Category = "stress_anxiety"
	CategoryPhysicalSymptoms  Category = "physical_symptoms"
	CategorySocialInteraction Category = "social_interaction"
	CategoryWorkProductivity  Category = "work_productivity"
	CategoryEnvironment       Category = "environment"
)

// DefaultMinInterval applies to categories without an explicit re-ask interval.
const DefaultMinInterval = 12 * time.Hour

// allCategories fixes the catalog order used for gap prioritisation.
var allCategories = [...]Category{
	CategorySleep,
	CategoryNutrition,
	CategoryPhysicalActivity,
	CategorySubstances,
	CategoryMentalState,
	CategoryStressAnxiety,
	CategoryPhysicalSymptoms,
	CategorySocialInteraction,
	CategoryWorkProductivity,
	CategoryEnvironment,
}

// ParseCategory validates a raw tag against the closed category set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	for _, known := range allCategories {
		if c == known {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Words returns the category name with underscores replaced by spaces.
func (c Category) Words() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Catalog is the read-only table of categories and their minimum re-ask
// intervals. Build it once at startup and share it.
type Catalog struct {
	order     []Category
	intervals map[Category]time.Duration
}

// NewCatalog builds a catalog over every known category. Intervals missing
// from overrides fall back to DefaultMinInterval.
func NewCatalog(overrides map[Category]time.Duration) *Catalog {
	c := &Catalog{
		order:     make([]Category, len(allCategories)),
		intervals: make(map[Category]time.Duration, len(allCategories)),
	}
	copy(c.order, allCategories[:])

	for _, cat := range allCategories {
		interval, ok := overrides[cat]
		if !ok || interval <= 0 {
			interval = DefaultMinInterval
		}
		c.intervals[cat] = interval
	}

	return c
}

// DefaultIntervals returns a fresh copy of the stock frequency limits.
func DefaultIntervals() map[Category]time.Duration {
	return map[Category]time.Duration{
		CategorySleep:             24 * time.Hour,
		CategoryMentalState:       4 * time.Hour,
		CategoryStressAnxiety:     6 * time.Hour,
		CategoryNutrition:         8 * time.Hour,
		CategoryPhysicalActivity:  8 * time.Hour,
		CategorySubstances:        12 * time.Hour,
		CategoryPhysicalSymptoms:  12 * time.Hour,
		CategorySocialInteraction: 12 * time.Hour,
		CategoryWorkProductivity:  12 * time.Hour,
		CategoryEnvironment:       24 * time.Hour,
	}
}

// DefaultCatalog returns the catalog with the stock frequency limits.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultIntervals())
}

// Categories returns the catalog order. The slice is a copy.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of categories in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// MinInterval returns the minimum time between two asks of cat.
func (c *Catalog) MinInterval(cat Category) time.Duration {
	if interval, ok := c.intervals[cat]; ok {
		return interval
	}
	return DefaultMinInterval
}

// MostAskable returns the category with the shortest minimum interval.
// Ties resolve to the earlier category in catalog order.
func (c *Catalog) MostAskable() Category {
	best := c.order[0]
	for _, cat := range c.order[1:] {
		if c.intervals[cat] < c.intervals[best] {
			best = cat
		}
	}
	return best
}
