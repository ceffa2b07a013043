package attendance

import (
	"sort"
	"time"
)

// DayGroup is one calendar day of sessions with its derived totals.
type DayGroup struct {
	Date         string
	Logs         []Log
	TotalSeconds int
	Active       bool
}

// GroupByDay buckets logs by their stored Date field and orders the groups
// most recent day first. Grouping deliberately ignores the ClockIn timestamp:
// a session clocked in late at night belongs to the local day recorded at
// clock-in, whatever its UTC date.
func GroupByDay(logs []Log, now time.Time) []DayGroup {
	byDate := make(map[string]*DayGroup)
	order := make([]string, 0)

	for _, l := range logs {
		g, ok := byDate[l.Date]
		if !ok {
			g = &DayGroup{Date: l.Date}
			byDate[l.Date] = g
			order = append(order, l.Date)
		}
		g.Logs = append(g.Logs, l)
		g.TotalSeconds += WorkedSeconds(l, now)
		if l.Active() {
			g.Active = true
		}
	}

	// Date strings are YYYY-MM-DD, so lexicographic order is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	groups := make([]DayGroup, 0, len(order))
	for _, d := range order {
		groups = append(groups, *byDate[d])
	}
	return groups
}
