package query

import "github.com/antigravity/transit-raptor/internal/schedule"

// ExpandDisruptions applies the series-root expansion rule spec.md §9
// fixes: a short name divisible by 100 is a series root and excludes
// short names n+1..n+99 (not n itself); any other short name excludes
// only itself.
func ExpandDisruptions(shortNames []int) map[int]bool {
	out := make(map[int]bool, len(shortNames))
	for _, n := range shortNames {
		if n%100 == 0 {
			for i := n + 1; i <= n+99; i++ {
				out[i] = true
			}
			continue
		}
		out[n] = true
	}
	return out
}

// DisruptedTrips resolves a set of excluded short names to the
// concrete trip ids operating on date.
func DisruptedTrips(store *schedule.Store, date string, excludedShortNames map[int]bool) map[schedule.TripID]bool {
	out := make(map[schedule.TripID]bool)
	if len(excludedShortNames) == 0 {
		return out
	}
	for _, tid := range store.TripsOnDate(date) {
		shortName, _ := store.TripInfo(tid)
		if excludedShortNames[shortName] {
			out[tid] = true
		}
	}
	return out
}
