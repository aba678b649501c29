package model

import "time"

// DaysPerWeek is the length of one planning week.
const DaysPerWeek = 7

// Period is a named, Monday-aligned span of weeks that projects are planned in.
type Period struct {
	ID        string `json:"period_id"`
	Name      string `json:"name"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// NewPeriod builds a period with both dates shifted back to the Monday of their week.
func NewPeriod(id, name string, start, end Date) Period {
	return Period{ID: id, Name: name, StartDate: start, EndDate: end}.Normalize()
}

// MondayOf returns the Monday of the week containing d.
func MondayOf(d Date) Date {
	// time.Weekday counts from Sunday; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % DaysPerWeek
	return d.AddDays(-offset)
}

// Normalize aligns the start and end dates on Mondays. It is idempotent.
func (p Period) Normalize() Period {
	p.StartDate = MondayOf(p.StartDate)
	p.EndDate = MondayOf(p.EndDate)
	return p
}

// NumWeeks is the number of whole weeks between start and end. It is negative
// when the end precedes the start.
func (p Period) NumWeeks() int {
	return floorDiv(p.StartDate.DaysUntil(p.EndDate), DaysPerWeek)
}

// Valid reports whether the period spans at least one week.
func (p Period) Valid() bool {
	return p.NumWeeks() >= 1
}

// HasWeek reports whether week is a valid index into the period.
func (p Period) HasWeek(week int) bool {
	return week >= 0 && week < p.NumWeeks()
}

// WeekStart returns the Monday that opens the given week index.
func (p Period) WeekStart(week int) Date {
	return p.StartDate.AddDays(week * DaysPerWeek)
}

// WeekOf returns the week index containing t, which may fall outside the period.
func (p Period) WeekOf(t time.Time) int {
	return floorDiv(p.StartDate.DaysUntil(DateOf(t)), DaysPerWeek)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
