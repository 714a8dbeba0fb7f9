// Package schedule holds the dense, read-only form of a static transit
// timetable: contiguous integer ids for stops, trips and stations, a
// CSR-style station-to-platform adjacency, and per-stop / per-trip
// indexes into a flat stop-time table. It is built once by
// internal/optimize and never mutated afterwards.
package schedule

import "sort"

// StopID, TripID and StationID are zero-based and contiguous for the
// lifetime of a Store.
type StopID uint32
type TripID uint32
type StationID uint32

const (
	// NoStop marks "no predecessor recorded yet" in a Label. It is
	// outside the range the Optimizer ever assigns, so it can never
	// collide with a real stop id (see spec.md §9 on sentinel 0).
	NoStop StopID = ^StopID(0)
	// SelfStop marks an origin stop in a Label's via_stop field.
	SelfStop StopID = ^StopID(0) - 1
	// NoTrip marks a transfer leg in a Label's via_trip field.
	NoTrip TripID = ^TripID(0)
	// Unreached is the sentinel travel time for a stop no round has
	// touched yet. Any value >= 24h counts as unreached.
	Unreached uint32 = 24*3600 + 1
)

// Stop is a single boarding platform.
type Stop struct {
	Name          string
	ParentStation StationID
	PlatformCode  string
	IsTransfer    bool
}

// StopTime is one row of a trip's sorted stop sequence.
type StopTime struct {
	Stop          StopID
	Sequence      uint16
	ArrivalTimeS  uint32
	DepartureTimeS uint32
}

// Trip is a single operating instance of a vehicle run on one service
// date.
type Trip struct {
	ShortName   int
	ServiceDate string // YYYYMMDD
}

// Store is the immutable, index-based schedule a query runs against.
type Store struct {
	stops []Stop
	trips []Trip

	// station -> platforms, CSR layout.
	stationOffsets []csrRange
	stationData    []StopID

	// trip -> sorted stop-time rows, CSR layout.
	tripStopOffsets []csrRange
	tripStopData    []StopTime

	// stop -> (trip id, stop-time row) pairs at that stop, sorted by
	// departure time, used by StopDepartures.
	stopDepOffsets []csrRange
	stopDepTrips   []TripID
	stopDepRows    []StopTime

	// date (YYYYMMDD) -> trips operating that day.
	tripsByDate map[string][]TripID

	// name -> platform stop ids sharing that station name.
	stopsByName map[string][]StopID
}

type csrRange struct {
	start, length uint32
}

// NumStops returns the number of platforms in the store.
func (s *Store) NumStops() int { return len(s.stops) }

// NumStations returns the number of stations in the store.
func (s *Store) NumStations() int { return len(s.stationOffsets) }

// NumTrips returns the number of distinct trips in the store.
func (s *Store) NumTrips() int { return len(s.trips) }

// StopInfo returns a platform's static attributes. Invalid ids are a
// programmer error: accessors are total over ids the Optimizer produced.
func (s *Store) StopInfo(id StopID) (name string, station StationID, platformCode string, isTransfer bool) {
	st := s.stops[id]
	return st.Name, st.ParentStation, st.PlatformCode, st.IsTransfer
}

// StationPlatforms returns, in O(1), the platform ids belonging to a
// station.
func (s *Store) StationPlatforms(id StationID) []StopID {
	r := s.stationOffsets[id]
	return s.stationData[r.start : r.start+r.length]
}

// StopsByName returns every platform whose station name matches name
// exactly.
func (s *Store) StopsByName(name string) []StopID {
	return s.stopsByName[name]
}

// TripStops returns a trip's stop sequence, sorted by stop_sequence.
func (s *Store) TripStops(id TripID) []StopTime {
	r := s.tripStopOffsets[id]
	return s.tripStopData[r.start : r.start+r.length]
}

// TripInfo returns a trip's human-facing short name (e.g. line
// number) and its operating date.
func (s *Store) TripInfo(id TripID) (shortName int, serviceDate string) {
	t := s.trips[id]
	return t.ShortName, t.ServiceDate
}

// TripsOnDate returns every trip operating on the given YYYYMMDD date.
func (s *Store) TripsOnDate(date string) []TripID {
	return s.tripsByDate[date]
}

// StopDepartures returns the trips that depart stopID within
// [windowStartS, windowEndS], restricted to activeTrips and excluding
// excluded. Trips are returned in ascending departure-time order so
// callers can stop early once they have enough lookahead.
func (s *Store) StopDepartures(stopID StopID, windowStartS, windowEndS uint32, activeTrips map[TripID]bool, excluded map[TripID]bool) []TripID {
	r := s.stopDepOffsets[stopID]
	rows := s.stopDepRows[r.start : r.start+r.length]
	trips := s.stopDepTrips[r.start : r.start+r.length]

	lo := sort.Search(len(rows), func(i int) bool { return rows[i].DepartureTimeS >= windowStartS })
	out := make([]TripID, 0, len(rows)-lo)
	for i := lo; i < len(rows); i++ {
		if rows[i].DepartureTimeS > windowEndS {
			break
		}
		t := trips[i]
		if activeTrips != nil && !activeTrips[t] {
			continue
		}
		if excluded != nil && excluded[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}
