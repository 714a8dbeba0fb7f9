// Package optimize is the one-shot transform from raw relational
// tables to a dense schedule.Store: it renumbers stops, trips and
// stations to contiguous small integers, builds the station to
// platforms adjacency, flags transfer stations, and sorts each trip's
// stop sequence. It runs once per build and is never on the query hot
// path.
package optimize

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/antigravity/transit-raptor/internal/loader"
	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

const stopAreaPrefix = "stoparea"

// stopRecord is a stop row that survived the stoparea drop, still
// keyed by its raw textual id.
type stopRecord struct {
	oldID         string
	name          string
	parentStation string
	platformCode  string
}

func (s stopRecord) stationKey() string {
	if s.parentStation != "" {
		return s.parentStation
	}
	return s.oldID
}

// tripPattern is one raw trip's sorted stop sequence, already
// renumbered onto new stop ids. A tripPattern is shared by every
// service date the trip operates on.
type tripPattern struct {
	oldID     string
	shortName int
	serviceID string
	rows      []schedule.StopTime
}

// Build runs the Optimizer end to end and returns the immutable
// Schedule Store. Any malformed row aborts the build with
// txerr.ErrInvalidInputSchedule; the Store is either complete or nil.
func Build(t loader.RawTables) (*schedule.Store, error) {
	stops, err := dropStopAreas(t.Stops)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: no stops survived the stoparea filter", txerr.ErrInvalidInputSchedule)
	}

	stopIndex, stationIndex, builtStops, stationPlatforms := renumberStops(stops)

	patterns, err := buildTripPatterns(t.Trips, t.StopTimes, stopIndex)
	if err != nil {
		return nil, err
	}

	markTransferStations(patterns, builtStops, stationIndex)

	trips, tripStopTimes, tripsByDate, err := joinServiceDates(patterns, t.CalendarDates)
	if err != nil {
		return nil, err
	}

	b := schedule.NewBuilder(len(builtStops), len(trips))
	b.Stops = builtStops
	b.Trips = trips
	b.StationPlatforms = stationPlatforms
	b.TripStopTimes = tripStopTimes
	b.TripsByDate = tripsByDate

	return b.Freeze(), nil
}

// dropStopAreas filters out stops.txt rows whose stop_id begins with
// the literal prefix "stoparea" — synthetic rows with no platform
// semantics.
func dropStopAreas(raw []loader.RawStop) ([]stopRecord, error) {
	out := make([]stopRecord, 0, len(raw))
	for _, r := range raw {
		if len(r.StopID) >= len(stopAreaPrefix) && r.StopID[:len(stopAreaPrefix)] == stopAreaPrefix {
			continue
		}
		if r.StopID == "" {
			return nil, fmt.Errorf("%w: empty stop_id", txerr.ErrInvalidInputSchedule)
		}
		out = append(out, stopRecord{
			oldID:         r.StopID,
			name:          r.StopName,
			parentStation: r.ParentStation,
			platformCode:  r.PlatformCode,
		})
	}
	return out, nil
}

// renumberStops assigns contiguous stop and station ids, sorted
// ascending by old id, and lays out the station -> platforms adjacency
// in the same ascending order (so CSR data stays sorted per station).
func renumberStops(stops []stopRecord) (stopIndex map[string]schedule.StopID, stationIndex map[string]schedule.StationID, builtStops []schedule.Stop, stationPlatforms [][]schedule.StopID) {
	sort.Slice(stops, func(i, j int) bool { return compareID(stops[i].oldID, stops[j].oldID) })

	stationKeys := make([]string, 0)
	seenStation := make(map[string]bool)
	for _, s := range stops {
		k := s.stationKey()
		if !seenStation[k] {
			seenStation[k] = true
			stationKeys = append(stationKeys, k)
		}
	}
	sort.Slice(stationKeys, func(i, j int) bool { return compareID(stationKeys[i], stationKeys[j]) })

	stationIndex = make(map[string]schedule.StationID, len(stationKeys))
	for i, k := range stationKeys {
		stationIndex[k] = schedule.StationID(i)
	}

	stopIndex = make(map[string]schedule.StopID, len(stops))
	builtStops = make([]schedule.Stop, len(stops))
	stationPlatforms = make([][]schedule.StopID, len(stationKeys))

	for i, s := range stops {
		id := schedule.StopID(i)
		stopIndex[s.oldID] = id
		station := stationIndex[s.stationKey()]
		builtStops[i] = schedule.Stop{
			Name:          s.name,
			ParentStation: station,
			PlatformCode:  s.platformCode,
			IsTransfer:    false,
		}
		stationPlatforms[station] = append(stationPlatforms[station], id)
	}
	return stopIndex, stationIndex, builtStops, stationPlatforms
}

// buildTripPatterns parses stop_times, groups rows by trip, sorts each
// trip's rows by stop_sequence, and renumbers stop references. Trips
// are returned sorted ascending by old trip id.
func buildTripPatterns(rawTrips []loader.RawTrip, rawStopTimes []loader.RawStopTime, stopIndex map[string]schedule.StopID) ([]tripPattern, error) {
	type rawRow struct {
		seq      int
		arr, dep uint32
		stop     schedule.StopID
	}
	byTrip := make(map[string][]rawRow, len(rawTrips))
	knownTrips := make(map[string]bool, len(rawTrips))
	for _, rt := range rawTrips {
		knownTrips[rt.TripID] = true
	}

	for _, st := range rawStopTimes {
		if !knownTrips[st.TripID] {
			return nil, fmt.Errorf("%w: stop_time references unknown trip %q", txerr.ErrInvalidInputSchedule, st.TripID)
		}
		stopID, ok := stopIndex[st.StopID]
		if !ok {
			return nil, fmt.Errorf("%w: stop_time references unknown stop %q", txerr.ErrInvalidInputSchedule, st.StopID)
		}
		seq, err := strconv.Atoi(st.StopSequence)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed stop_sequence %q: %v", txerr.ErrInvalidInputSchedule, st.StopSequence, err)
		}
		arr, err := parseClock(st.ArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", txerr.ErrInvalidInputSchedule, err)
		}
		dep, err := parseClock(st.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", txerr.ErrInvalidInputSchedule, err)
		}
		byTrip[st.TripID] = append(byTrip[st.TripID], rawRow{seq: seq, arr: arr, dep: dep, stop: stopID})
	}

	patterns := make([]tripPattern, 0, len(rawTrips))
	sortedTrips := make([]loader.RawTrip, len(rawTrips))
	copy(sortedTrips, rawTrips)
	sort.Slice(sortedTrips, func(i, j int) bool { return compareID(sortedTrips[i].TripID, sortedTrips[j].TripID) })

	for _, rt := range sortedTrips {
		rows := byTrip[rt.TripID]
		if len(rows) == 0 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

		shortName, err := strconv.Atoi(rt.TripShortName)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed trip_short_name %q for trip %q: %v", txerr.ErrInvalidInputSchedule, rt.TripShortName, rt.TripID, err)
		}

		stopTimes := make([]schedule.StopTime, len(rows))
		for i, r := range rows {
			if i > 0 && (r.arr <= rows[i-1].arr || r.dep <= rows[i-1].dep) {
				return nil, fmt.Errorf("%w: trip %q is not strictly monotone in arrival/departure time", txerr.ErrInvalidInputSchedule, rt.TripID)
			}
			stopTimes[i] = schedule.StopTime{
				Stop:           r.stop,
				Sequence:       uint16(r.seq),
				ArrivalTimeS:   r.arr,
				DepartureTimeS: r.dep,
			}
		}

		patterns = append(patterns, tripPattern{
			oldID:     rt.TripID,
			shortName: shortName,
			serviceID: rt.ServiceID,
			rows:      stopTimes,
		})
	}
	return patterns, nil
}

// markTransferStations implements spec's transfer-station heuristic: a
// station is a transfer station iff, across every trip pattern, the
// set of distinct stops immediately following one of its platforms has
// more than two members.
func markTransferStations(patterns []tripPattern, stops []schedule.Stop, stationIndex map[string]schedule.StationID) {
	nextStopSets := make([]map[schedule.StopID]bool, len(stationIndex))
	for i := range nextStopSets {
		nextStopSets[i] = make(map[schedule.StopID]bool)
	}

	for _, p := range patterns {
		for i := 0; i+1 < len(p.rows); i++ {
			stop := p.rows[i].Stop
			next := p.rows[i+1].Stop
			station := stops[stop].ParentStation
			nextStopSets[station][next] = true
		}
	}

	transferStation := make([]bool, len(stationIndex))
	for station, set := range nextStopSets {
		if len(set) > 2 {
			transferStation[station] = true
		}
	}

	for i := range stops {
		if transferStation[stops[i].ParentStation] {
			stops[i].IsTransfer = true
		}
	}
}

// joinServiceDates expands each trip pattern across the dates its
// service_id operates on, producing the final trip list and the
// trips-by-date index. A pattern whose service_id has no operating
// dates contributes no trips — it can never be boarded.
func joinServiceDates(patterns []tripPattern, calendarDates []loader.RawCalendarDate) ([]schedule.Trip, [][]schedule.StopTime, map[string][]schedule.TripID, error) {
	datesByService := make(map[string][]string)
	for _, cd := range calendarDates {
		datesByService[cd.ServiceID] = append(datesByService[cd.ServiceID], cd.Date)
	}
	for svc, dates := range datesByService {
		sort.Strings(dates)
		datesByService[svc] = dates
	}

	var trips []schedule.Trip
	var tripStopTimes [][]schedule.StopTime
	tripsByDate := make(map[string][]schedule.TripID)

	for _, p := range patterns {
		for _, date := range datesByService[p.serviceID] {
			id := schedule.TripID(len(trips))
			trips = append(trips, schedule.Trip{ShortName: p.shortName, ServiceDate: date})
			tripStopTimes = append(tripStopTimes, p.rows)
			tripsByDate[date] = append(tripsByDate[date], id)
		}
	}
	return trips, tripStopTimes, tripsByDate, nil
}
