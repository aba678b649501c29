package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMondayOfEveryWeekday(t *testing.T) {
	// 2025-01-06 is a Monday.
	monday := NewDate(2025, time.January, 6)
	for i := 0; i < 7; i++ {
		d := monday.AddDays(i)
		got := MondayOf(d)
		if got.Weekday() != time.Monday {
			t.Fatalf("MondayOf(%s) = %s (%s)", d, got, got.Weekday())
		}
		if !got.Equal(monday.Time) {
			t.Fatalf("MondayOf(%s) = %s, want %s", d, got, monday)
		}
	}
}

func TestNewPeriodNormalizesToMondays(t *testing.T) {
	start := NewDate(2025, time.February, 5) // Wednesday
	end := NewDate(2025, time.April, 27)     // Sunday
	p := NewPeriod("p1", "Q1", start, end)
	assert.Equal(t, time.Monday, p.StartDate.Weekday())
	assert.Equal(t, time.Monday, p.EndDate.Weekday())
	assert.Equal(t, "2025-02-03", p.StartDate.String())
	assert.Equal(t, "2025-04-21", p.EndDate.String())
	assert.Equal(t, 11, p.NumWeeks())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	p := NewPeriod("p1", "Q1", NewDate(2024, time.December, 31), NewDate(2025, time.March, 2))
	again := p.Normalize()
	assert.Equal(t, p, again)
	assert.Equal(t, p.NumWeeks(), again.NumWeeks())
}

func TestNumWeeksScenario(t *testing.T) {
	p := NewPeriod("p1", "Q1", NewDate(2025, time.January, 6), NewDate(2025, time.February, 17))
	assert.Equal(t, 6, p.NumWeeks())
	assert.True(t, p.Valid())
	assert.True(t, p.HasWeek(0))
	assert.True(t, p.HasWeek(5))
	assert.False(t, p.HasWeek(6))
	assert.False(t, p.HasWeek(-1))
	assert.Equal(t, "2025-01-20", p.WeekStart(2).String())
}

func TestNumWeeksInvalidPeriods(t *testing.T) {
	sameWeek := NewPeriod("p", "same", NewDate(2025, time.January, 6), NewDate(2025, time.January, 10))
	assert.Equal(t, 0, sameWeek.NumWeeks())
	assert.False(t, sameWeek.Valid())

	reversed := NewPeriod("p", "rev", NewDate(2025, time.February, 17), NewDate(2025, time.January, 6))
	assert.Equal(t, -6, reversed.NumWeeks())
	assert.False(t, reversed.Valid())
}

func TestWeekOf(t *testing.T) {
	p := NewPeriod("p1", "Q1", NewDate(2025, time.January, 6), NewDate(2025, time.February, 17))
	assert.Equal(t, 0, p.WeekOf(time.Date(2025, time.January, 12, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, p.WeekOf(time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, p.WeekOf(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)))
}

func TestDateJSONRoundTrip(t *testing.T) {
	var in struct {
		Start Date `json:"start_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2025-02-03"}`), &in))
	assert.Equal(t, "2025-02-03", in.Start.String())

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2025-02-03"}`, string(out))

	err = json.Unmarshal([]byte(`{"start_date":"03/02/2025"}`), &in)
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-01-06"))
	assert.Equal(t, "2025-01-06", d.String())

	require.NoError(t, d.Scan([]byte("2025-01-07T00:00:00Z")))
	assert.Equal(t, "2025-01-07", d.String())

	require.NoError(t, d.Scan(time.Date(2025, time.January, 8, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-08", d.String())

	assert.Error(t, d.Scan(42))
}

func TestContributorHelpers(t *testing.T) {
	c := Contributor{FirstName: "Ada", LastName: "Lovelace", SkillIDs: []string{"s1", "s2"}}
	assert.Equal(t, "Ada Lovelace", c.FullName())
	assert.True(t, c.HasSkill("s2"))
	assert.False(t, c.HasSkill("s3"))
}
