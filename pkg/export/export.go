// Package export renders planner reports as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
)

// WriteJSON writes the contributor chart to w in JSON format.
func WriteJSON(w io.Writer, chart planner.ContributorChart) error {
	enc := json.NewEncoder(w)
	return enc.Encode(chart)
}

// WriteChartCSV writes one row per contributor and week of the period. Rows
// are ordered by contributor name then week; the components of a week are
// joined with ";".
func WriteChartCSV(w io.Writer, period model.Period, chart planner.ContributorChart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"contributor_id", "name", "week", "week_start", "components"}); err != nil {
		return err
	}
	ids := make([]string, 0, len(chart))
	for id := range chart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := chart[ids[i]], chart[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		weeks := chart[id]
		for week, components := range weeks.Assignments {
			rec := []string{
				id,
				weeks.Name,
				strconv.Itoa(week),
				period.WeekStart(week).String(),
				strings.Join(components, ";"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
