package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transit-raptor/internal/loader"
)

// scenarioATables builds the literal fixture from spec.md Scenario A:
// a single direct trip A#1 -> B#1 -> C#1.
func scenarioATables() loader.RawTables {
	return loader.RawTables{
		Stops: []loader.RawStop{
			{StopID: "A1", StopName: "A", ParentStation: "SA"},
			{StopID: "B1", StopName: "B", ParentStation: "SB"},
			{StopID: "C1", StopName: "C", ParentStation: "SC"},
		},
		Trips: []loader.RawTrip{
			{TripID: "T1", ServiceID: "WD", TripShortName: "1"},
		},
		CalendarDates: []loader.RawCalendarDate{
			{ServiceID: "WD", Date: "20260801"},
		},
		StopTimes: []loader.RawStopTime{
			{TripID: "T1", StopID: "A1", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T1", StopID: "B1", StopSequence: "2", ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
			{TripID: "T1", StopID: "C1", StopSequence: "3", ArrivalTime: "08:25:00", DepartureTime: "08:25:00"},
		},
	}
}

func TestBuildScenarioA(t *testing.T) {
	store, err := Build(scenarioATables())
	require.NoError(t, err)

	require.Equal(t, 3, store.NumStops())
	require.Equal(t, 1, store.NumTrips())

	trips := store.TripsOnDate("20260801")
	require.Len(t, trips, 1)

	shortName, date := store.TripInfo(trips[0])
	assert.Equal(t, 1, shortName)
	assert.Equal(t, "20260801", date)

	rows := store.TripStops(trips[0])
	require.Len(t, rows, 3)
	assert.Equal(t, uint32(28800), rows[0].DepartureTimeS)
	assert.Equal(t, uint32(30300), rows[2].ArrivalTimeS)
}

func TestBuildDropsStopAreas(t *testing.T) {
	tables := scenarioATables()
	tables.Stops = append(tables.Stops, loader.RawStop{StopID: "stoparea99", StopName: "ignored"})

	store, err := Build(tables)
	require.NoError(t, err)
	assert.Equal(t, 3, store.NumStops())
}

func TestBuildFailsOnDanglingStopTimeReference(t *testing.T) {
	tables := scenarioATables()
	tables.StopTimes[0].StopID = "unknown-stop"

	_, err := Build(tables)
	require.Error(t, err)
}

func TestBuildFailsOnMalformedTripShortName(t *testing.T) {
	tables := scenarioATables()
	tables.Trips[0].TripShortName = "not-a-number"

	_, err := Build(tables)
	require.Error(t, err)
}

func TestBuildSkipsTripWithNoOperatingDate(t *testing.T) {
	tables := scenarioATables()
	tables.CalendarDates = nil

	store, err := Build(tables)
	require.NoError(t, err)
	assert.Equal(t, 0, store.NumTrips())
}

// TestTransferStationDetection builds a station S with three platforms
// each feeding a distinct next stop, which must cross the >2 threshold
// spec.md §4.2 step 4 requires.
func TestTransferStationDetection(t *testing.T) {
	tables := loader.RawTables{
		Stops: []loader.RawStop{
			{StopID: "S1", StopName: "S", ParentStation: "S"},
			{StopID: "S2", StopName: "S", ParentStation: "S"},
			{StopID: "S3", StopName: "S", ParentStation: "S"},
			{StopID: "X", StopName: "X", ParentStation: "X"},
			{StopID: "Y", StopName: "Y", ParentStation: "Y"},
			{StopID: "Z", StopName: "Z", ParentStation: "Z"},
		},
		Trips: []loader.RawTrip{
			{TripID: "T1", ServiceID: "WD", TripShortName: "1"},
			{TripID: "T2", ServiceID: "WD", TripShortName: "2"},
			{TripID: "T3", ServiceID: "WD", TripShortName: "3"},
		},
		CalendarDates: []loader.RawCalendarDate{
			{ServiceID: "WD", Date: "20260801"},
		},
		StopTimes: []loader.RawStopTime{
			{TripID: "T1", StopID: "S1", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T1", StopID: "X", StopSequence: "2", ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
			{TripID: "T2", StopID: "S2", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T2", StopID: "Y", StopSequence: "2", ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
			{TripID: "T3", StopID: "S3", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T3", StopID: "Z", StopSequence: "2", ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
		},
	}

	store, err := Build(tables)
	require.NoError(t, err)

	for _, name := range []string{"S"} {
		ids := store.StopsByName(name)
		require.Len(t, ids, 3)
		for _, id := range ids {
			_, _, _, isTransfer := store.StopInfo(id)
			assert.True(t, isTransfer, "platform of S should be a transfer stop")
		}
	}

	xIDs := store.StopsByName("X")
	require.Len(t, xIDs, 1)
	_, _, _, isTransfer := store.StopInfo(xIDs[0])
	assert.False(t, isTransfer)
}

func TestNonTransferStationStaysFalse(t *testing.T) {
	// Scenario F: a station with only two distinct next-stops across
	// its platforms must not be flagged as a transfer station.
	tables := loader.RawTables{
		Stops: []loader.RawStop{
			{StopID: "S1", StopName: "S", ParentStation: "S"},
			{StopID: "S2", StopName: "S", ParentStation: "S"},
			{StopID: "X", StopName: "X", ParentStation: "X"},
			{StopID: "Y", StopName: "Y", ParentStation: "Y"},
		},
		Trips: []loader.RawTrip{
			{TripID: "T1", ServiceID: "WD", TripShortName: "1"},
			{TripID: "T2", ServiceID: "WD", TripShortName: "2"},
		},
		CalendarDates: []loader.RawCalendarDate{
			{ServiceID: "WD", Date: "20260801"},
		},
		StopTimes: []loader.RawStopTime{
			{TripID: "T1", StopID: "S1", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T1", StopID: "X", StopSequence: "2", ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
			{TripID: "T2", StopID: "S2", StopSequence: "1", ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T2", StopID: "Y", StopSequence: "2", ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
		},
	}

	store, err := Build(tables)
	require.NoError(t, err)

	ids := store.StopsByName("S")
	require.Len(t, ids, 2)
	for _, id := range ids {
		_, _, _, isTransfer := store.StopInfo(id)
		assert.False(t, isTransfer)
	}
}
