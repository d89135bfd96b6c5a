package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 10, c.Len())
	assert.Equal(t, CategorySleep, c.Categories()[0])
	assert.Equal(t, 24*time.Hour, c.MinInterval(CategorySleep))
	assert.Equal(t, 4*time.Hour, c.MinInterval(CategoryMentalState))
	assert.Equal(t, CategoryMentalState, c.MostAskable())
}

func TestNewCatalog_DefaultsMissingIntervals(t *testing.T) {
	c := NewCatalog(map[Category]time.Duration{CategoryEnvironment: 2 * time.Hour})

	assert.Equal(t, DefaultMinInterval, c.MinInterval(CategorySleep))
	assert.Equal(t, CategoryEnvironment, c.MostAskable())
}

func TestCatalog_CategoriesIsACopy(t *testing.T) {
	c := DefaultCatalog()
	cats := c.Categories()
	cats[0] = "bogus"

	assert.Equal(t, CategorySleep, c.Categories()[0])
}

func TestParseCategory(t *testing.T) {
	cat, err := ParseCategory("stress_anxiety")
	require.NoError(t, err)
	assert.Equal(t, CategoryStressAnxiety, cat)
	assert.Equal(t, "stress anxiety", cat.Words())

	_, err = ParseCategory("hydration")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestUser_Window(t *testing.T) {
	wake := NewClockTime(6, 30)
	sleep := NewClockTime(22, 30)
	screens := NewClockTime(21, 15)

	w, e := User{}.Window()
	assert.Equal(t, DefaultWakeTime, w)
	assert.Equal(t, DefaultScreensOffTime, e)

	w, e = User{WakeTime: &wake, SleepTime: &sleep}.Window()
	assert.Equal(t, wake, w)
	assert.Equal(t, sleep, e)

	_, e = User{SleepTime: &sleep, ScreensOffTime: &screens}.Window()
	assert.Equal(t, screens, e)
}

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("07:45:00")
	require.NoError(t, err)
	assert.Equal(t, "07:45", c.String())

	c, err = ParseClockTime("23:05")
	require.NoError(t, err)
	assert.Equal(t, 23*60+5, int(c))

	_, err = ParseClockTime("25:99")
	assert.Error(t, err)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
	assert.Equal(t, time.UTC, loc)
}
