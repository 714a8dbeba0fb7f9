package schedule

// Builder accumulates the flat arrays internal/optimize computes and
// freezes them into an immutable Store. It is not safe for concurrent
// use; callers build one Store on one goroutine and then share it
// read-only.
type Builder struct {
	Stops []Stop
	Trips []Trip

	// StationPlatforms[i] lists the platform ids for station i, in
	// ascending order. The Builder lays these out as CSR on Freeze.
	StationPlatforms [][]StopID

	// TripStopTimes[i] is trip i's stop sequence, already sorted by
	// stop_sequence by the Optimizer.
	TripStopTimes [][]StopTime

	// TripsByDate maps a YYYYMMDD date to the trips operating that
	// day.
	TripsByDate map[string][]TripID
}

// NewBuilder returns an empty Builder sized for n stops and t trips.
func NewBuilder(n, t int) *Builder {
	return &Builder{
		Stops:            make([]Stop, n),
		Trips:            make([]Trip, t),
		StationPlatforms: nil,
		TripStopTimes:    make([][]StopTime, t),
		TripsByDate:      make(map[string][]TripID),
	}
}

// Freeze materializes the CSR layouts and per-stop departure index and
// returns the immutable Store. Freeze panics if a trip's stop-time
// rows are not sorted by Sequence — that would indicate a bug in the
// Optimizer, not bad input.
func (b *Builder) Freeze() *Store {
	s := &Store{
		stops:       b.Stops,
		trips:       b.Trips,
		tripsByDate: b.TripsByDate,
		stopsByName: make(map[string][]StopID),
	}

	// Station -> platforms CSR.
	s.stationOffsets = make([]csrRange, len(b.StationPlatforms))
	var off uint32
	for i, platforms := range b.StationPlatforms {
		s.stationOffsets[i] = csrRange{start: off, length: uint32(len(platforms))}
		s.stationData = append(s.stationData, platforms...)
		off += uint32(len(platforms))
	}

	// Trip -> stop-time rows CSR.
	s.tripStopOffsets = make([]csrRange, len(b.TripStopTimes))
	off = 0
	for i, rows := range b.TripStopTimes {
		for j := 1; j < len(rows); j++ {
			if rows[j].Sequence <= rows[j-1].Sequence {
				panic("schedule: trip stop-time rows not sorted by sequence")
			}
		}
		s.tripStopOffsets[i] = csrRange{start: off, length: uint32(len(rows))}
		s.tripStopData = append(s.tripStopData, rows...)
		off += uint32(len(rows))
	}

	// Name index.
	for id, st := range b.Stops {
		s.stopsByName[st.Name] = append(s.stopsByName[st.Name], StopID(id))
	}

	s.buildStopDepartureIndex()
	return s
}

// depEntry is one (trip, row) pair departing some stop, pending
// assignment into the CSR departure index.
type depEntry struct {
	stop StopID
	trip TripID
	row  StopTime
}

// buildStopDepartureIndex builds, for every stop, the sorted-by-
// departure-time list of (trip, row) pairs that depart it. This is
// the index StopDepartures binary-searches into.
func (s *Store) buildStopDepartureIndex() {
	var entries []depEntry
	for tid, r := range s.tripStopOffsets {
		rows := s.tripStopData[r.start : r.start+r.length]
		for _, row := range rows {
			entries = append(entries, depEntry{stop: row.Stop, trip: TripID(tid), row: row})
		}
	}

	byStop := make(map[StopID][]depEntry, len(s.stops))
	for _, e := range entries {
		byStop[e.stop] = append(byStop[e.stop], e)
	}

	s.stopDepOffsets = make([]csrRange, len(s.stops))
	var off uint32
	for stopID := 0; stopID < len(s.stops); stopID++ {
		es := byStop[StopID(stopID)]
		sortEntriesByDeparture(es)
		s.stopDepOffsets[stopID] = csrRange{start: off, length: uint32(len(es))}
		for _, e := range es {
			s.stopDepTrips = append(s.stopDepTrips, e.trip)
			s.stopDepRows = append(s.stopDepRows, e.row)
		}
		off += uint32(len(es))
	}
}

// sortEntriesByDeparture uses insertion sort: per-stop entry counts
// are small (bounded by trips serving that stop).
func sortEntriesByDeparture(es []depEntry) {
	for i := 1; i < len(es); i++ {
		j := i
		for j > 0 && es[j-1].row.DepartureTimeS > es[j].row.DepartureTimeS {
			es[j-1], es[j] = es[j], es[j-1]
			j--
		}
	}
}
