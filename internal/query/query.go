// Package query resolves a human-facing request — named origin and
// destination stop-areas, a calendar date, and a time of day — into
// the integer stop sets and active-trip mask the Round Engine needs.
// It never scans the stop-time table itself: the 6h/1h forward windows
// spec.md describes are applied lazily by schedule.Store.StopDepartures
// at search time, so there is no separate filtered copy to keep
// consistent as the round-by-round trip exclusion set grows.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

// Plan is the resolved, ready-to-search form of a query request.
type Plan struct {
	OriginStops      []schedule.StopID
	DestinationStops []schedule.StopID
	DepartureS       uint32
	Date             string
	ActiveTrips      map[schedule.TripID]bool
	Excluded         map[schedule.TripID]bool
}

// Resolve turns a request into a Plan. A nil error with a non-nil Plan
// is the common case; ErrEmptyServiceDate is returned alongside a
// valid Plan (the search will simply report every destination as
// unreached) since spec.md treats it as non-fatal. ErrUnknownStopArea
// is always fatal: the Plan is unusable.
func Resolve(store *schedule.Store, originName, destName, date, timeStr string, excludedShortNames []int) (Plan, error) {
	origin := store.StopsByName(originName)
	if len(origin) == 0 {
		return Plan{}, fmt.Errorf("%w: %s", txerr.ErrUnknownStopArea, originName)
	}
	dest := store.StopsByName(destName)
	if len(dest) == 0 {
		return Plan{}, fmt.Errorf("%w: %s", txerr.ErrUnknownStopArea, destName)
	}

	depS, err := parseTimeOfDay(timeStr)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", txerr.ErrInvalidInputSchedule, err)
	}

	activeList := store.TripsOnDate(date)
	active := make(map[schedule.TripID]bool, len(activeList))
	for _, t := range activeList {
		active[t] = true
	}

	excluded := DisruptedTrips(store, date, ExpandDisruptions(excludedShortNames))

	plan := Plan{
		OriginStops:      origin,
		DestinationStops: dest,
		DepartureS:       depS,
		Date:             date,
		ActiveTrips:      active,
		Excluded:         excluded,
	}

	if len(activeList) == 0 {
		return plan, fmt.Errorf("%w: %s", txerr.ErrEmptyServiceDate, date)
	}
	return plan, nil
}

// parseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func parseTimeOfDay(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("malformed time %q", s)
		}
	}
	return uint32(h*3600 + m*60 + sec), nil
}
