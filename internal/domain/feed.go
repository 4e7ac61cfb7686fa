package domain

import "strings"

// FilterReports applies the home-page view filter: a case-insensitive
// substring match on name or location, and an optional category.
// An empty category or "all" keeps both buckets.
func FilterReports(reports []Report, search, category string) []Report {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]Report, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		if category != "" && category != "all" && string(r.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.Location), q) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// ComputeStats counts reports per category.
func ComputeStats(reports []Report) ReportStats {
	var st ReportStats
	for i := range reports {
		switch reports[i].Category {
		case CategoryLost:
			st.Lost++
		case CategoryFound:
			st.Found++
		}
	}
	st.Total = len(reports)
	return st
}
