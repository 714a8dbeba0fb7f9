package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

func buildTestStore(t *testing.T) *schedule.Store {
	t.Helper()
	b := schedule.NewBuilder(3, 2)
	b.Stops[0] = schedule.Stop{Name: "A", ParentStation: 0}
	b.Stops[1] = schedule.Stop{Name: "B", ParentStation: 1}
	b.Stops[2] = schedule.Stop{Name: "C", ParentStation: 2}
	b.StationPlatforms = [][]schedule.StopID{{0}, {1}, {2}}

	b.Trips[0] = schedule.Trip{ShortName: 100, ServiceDate: "20260801"}
	b.TripStopTimes[0] = []schedule.StopTime{
		{Stop: 0, Sequence: 1, ArrivalTimeS: 28800, DepartureTimeS: 28800},
		{Stop: 1, Sequence: 2, ArrivalTimeS: 29400, DepartureTimeS: 29400},
	}
	b.Trips[1] = schedule.Trip{ShortName: 200, ServiceDate: "20260801"}
	b.TripStopTimes[1] = []schedule.StopTime{
		{Stop: 1, Sequence: 1, ArrivalTimeS: 30000, DepartureTimeS: 30000},
		{Stop: 2, Sequence: 2, ArrivalTimeS: 30600, DepartureTimeS: 30600},
	}

	b.TripsByDate = map[string][]schedule.TripID{"20260801": {0, 1}}
	return b.Freeze()
}

func TestResolveHappyPath(t *testing.T) {
	store := buildTestStore(t)
	plan, err := Resolve(store, "A", "C", "20260801", "08:00:00", nil)
	require.NoError(t, err)
	assert.Equal(t, []schedule.StopID{0}, plan.OriginStops)
	assert.Equal(t, []schedule.StopID{2}, plan.DestinationStops)
	assert.Equal(t, uint32(28800), plan.DepartureS)
	assert.Len(t, plan.ActiveTrips, 2)
	assert.Empty(t, plan.Excluded)
}

func TestResolveUnknownOriginIsFatal(t *testing.T) {
	store := buildTestStore(t)
	plan, err := Resolve(store, "Nowhere", "C", "20260801", "08:00:00", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, txerr.ErrUnknownStopArea))
	assert.Equal(t, Plan{}, plan)
}

func TestResolveUnknownDestinationIsFatal(t *testing.T) {
	store := buildTestStore(t)
	plan, err := Resolve(store, "A", "Nowhere", "20260801", "08:00:00", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, txerr.ErrUnknownStopArea))
	assert.Equal(t, Plan{}, plan)
}

func TestResolveEmptyServiceDateIsNonFatal(t *testing.T) {
	store := buildTestStore(t)
	plan, err := Resolve(store, "A", "C", "19990101", "08:00:00", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, txerr.ErrEmptyServiceDate))
	// The Plan is still usable: origin/destination resolved, just no
	// active trips, so a search over it simply reports unreached.
	assert.Equal(t, []schedule.StopID{0}, plan.OriginStops)
	assert.Empty(t, plan.ActiveTrips)
}

func TestResolveMalformedTimeIsFatal(t *testing.T) {
	store := buildTestStore(t)
	_, err := Resolve(store, "A", "C", "20260801", "not-a-time", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, txerr.ErrInvalidInputSchedule))
}

func TestResolveAppliesDisruptions(t *testing.T) {
	store := buildTestStore(t)
	plan, err := Resolve(store, "A", "C", "20260801", "08:00:00", []int{100})
	require.NoError(t, err)
	assert.False(t, plan.Excluded[0], "100 is a series root, excludes 101..199, not trip 100 itself")
	assert.False(t, plan.Excluded[1])
}

func TestParseTimeOfDayAcceptsHourOver24(t *testing.T) {
	s, err := parseTimeOfDay("25:30:00")
	require.NoError(t, err)
	assert.Equal(t, uint32(25*3600+30*60), s)
}

func TestParseTimeOfDayRejectsBadMinute(t *testing.T) {
	_, err := parseTimeOfDay("08:99")
	require.Error(t, err)
}
