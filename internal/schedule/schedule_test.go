package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestStore(t *testing.T) *Store {
	t.Helper()
	b := NewBuilder(3, 3)
	b.Stops[0] = Stop{Name: "A", ParentStation: 0}
	b.Stops[1] = Stop{Name: "B", ParentStation: 1}
	b.Stops[2] = Stop{Name: "C", ParentStation: 2}
	b.StationPlatforms = [][]StopID{{0}, {1}, {2}}

	b.Trips[0] = Trip{ShortName: 100, ServiceDate: "20260801"}
	b.TripStopTimes[0] = []StopTime{
		{Stop: 0, Sequence: 1, ArrivalTimeS: 28800, DepartureTimeS: 28800},
		{Stop: 1, Sequence: 2, ArrivalTimeS: 29400, DepartureTimeS: 29400},
		{Stop: 2, Sequence: 3, ArrivalTimeS: 30300, DepartureTimeS: 30300},
	}

	b.Trips[1] = Trip{ShortName: 200, ServiceDate: "20260801"}
	b.TripStopTimes[1] = []StopTime{
		{Stop: 0, Sequence: 1, ArrivalTimeS: 32400, DepartureTimeS: 32400},
		{Stop: 1, Sequence: 2, ArrivalTimeS: 33000, DepartureTimeS: 33000},
	}

	b.Trips[2] = Trip{ShortName: 300, ServiceDate: "20260802"}
	b.TripStopTimes[2] = []StopTime{
		{Stop: 0, Sequence: 1, ArrivalTimeS: 28800, DepartureTimeS: 28800},
		{Stop: 2, Sequence: 2, ArrivalTimeS: 29000, DepartureTimeS: 29000},
	}

	b.TripsByDate = map[string][]TripID{
		"20260801": {0, 1},
		"20260802": {2},
	}

	return b.Freeze()
}

func TestStoreBasicAccessors(t *testing.T) {
	s := buildTestStore(t)

	require.Equal(t, 3, s.NumStops())
	require.Equal(t, 3, s.NumStations())
	require.Equal(t, 3, s.NumTrips())

	name, station, _, isTransfer := s.StopInfo(0)
	assert.Equal(t, "A", name)
	assert.Equal(t, StationID(0), station)
	assert.False(t, isTransfer)

	assert.Equal(t, []StopID{0}, s.StationPlatforms(0))
	assert.ElementsMatch(t, []TripID{0, 1}, s.TripsOnDate("20260801"))
	assert.Equal(t, []TripID{2}, s.TripsOnDate("20260802"))
	assert.Nil(t, s.TripsOnDate("19990101"))
}

func TestTripStopsPreservesOrder(t *testing.T) {
	s := buildTestStore(t)
	rows := s.TripStops(0)
	require.Len(t, rows, 3)
	assert.Equal(t, StopID(0), rows[0].Stop)
	assert.Equal(t, StopID(1), rows[1].Stop)
	assert.Equal(t, StopID(2), rows[2].Stop)
}

func TestStopDeparturesWindowAndFilters(t *testing.T) {
	s := buildTestStore(t)

	active := map[TripID]bool{0: true, 1: true}

	// Window covering only trip 0's departure from stop 0 (28800).
	trips := s.StopDepartures(0, 28800, 28800, active, nil)
	assert.Equal(t, []TripID{0}, trips)

	// Window covering both trips 0 and 1 departing stop 0.
	trips = s.StopDepartures(0, 0, 40000, active, nil)
	assert.Equal(t, []TripID{0, 1}, trips)

	// Excluding trip 0 leaves only trip 1.
	trips = s.StopDepartures(0, 0, 40000, active, map[TripID]bool{0: true})
	assert.Equal(t, []TripID{1}, trips)

	// active_trip_mask restricts to trips operating on the queried date.
	trips = s.StopDepartures(0, 0, 40000, map[TripID]bool{1: true}, nil)
	assert.Equal(t, []TripID{1}, trips)

	// Empty window before any departure.
	trips = s.StopDepartures(0, 0, 100, active, nil)
	assert.Empty(t, trips)
}

func TestSentinelsAreOutOfBand(t *testing.T) {
	s := buildTestStore(t)
	for id := 0; id < s.NumStops(); id++ {
		assert.NotEqual(t, NoStop, StopID(id))
		assert.NotEqual(t, SelfStop, StopID(id))
	}
	assert.Less(t, uint32(24*3600), Unreached)
}
