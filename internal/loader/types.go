// Package loader produces the raw relational tables spec.md §6
// requires, independent of whether they live in flat GTFS-shaped
// files or a Postgres database. Nothing in this package interprets
// the rows — that is internal/optimize's job.
package loader

import "context"

// RawAgency mirrors agency.txt. Unused by the core; carried for
// completeness and because CSVSource parses whatever is present.
type RawAgency struct {
	AgencyID string `csv:"agency_id"`
}

// RawRoute mirrors routes.txt. Unused by the core.
type RawRoute struct {
	RouteID string `csv:"route_id"`
}

// RawTrip mirrors trips.txt's required columns.
type RawTrip struct {
	TripID        string `csv:"trip_id"`
	ServiceID     string `csv:"service_id"`
	TripShortName string `csv:"trip_short_name"`
	ShapeID       string `csv:"shape_id"`
}

// RawCalendarDate mirrors calendar_dates.txt's required columns.
type RawCalendarDate struct {
	ServiceID string `csv:"service_id"`
	Date      string `csv:"date"`
}

// RawStopTime mirrors stop_times.txt's required columns.
type RawStopTime struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  string `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

// RawStop mirrors stops.txt's required columns.
type RawStop struct {
	StopID        string `csv:"stop_id"`
	StopName      string `csv:"stop_name"`
	PlatformCode  string `csv:"platform_code"`
	ParentStation string `csv:"parent_station"`
}

// RawTables bundles everything the Optimizer needs in one value.
type RawTables struct {
	Agencies      []RawAgency
	Routes        []RawRoute
	Trips         []RawTrip
	CalendarDates []RawCalendarDate
	StopTimes     []RawStopTime
	Stops         []RawStop
}

// Source produces the six raw tables spec.md §6 requires. Column
// projection (dropping headsigns, shapes, coordinates, zones, fares)
// happens inside each Source implementation, not in the Optimizer.
type Source interface {
	LoadAgencies(ctx context.Context) ([]RawAgency, error)
	LoadRoutes(ctx context.Context) ([]RawRoute, error)
	LoadTrips(ctx context.Context) ([]RawTrip, error)
	LoadCalendarDates(ctx context.Context) ([]RawCalendarDate, error)
	LoadStopTimes(ctx context.Context) ([]RawStopTime, error)
	LoadStops(ctx context.Context) ([]RawStop, error)
}

// LoadAll drains a Source into one RawTables value.
func LoadAll(ctx context.Context, src Source) (RawTables, error) {
	var (
		t   RawTables
		err error
	)
	if t.Agencies, err = src.LoadAgencies(ctx); err != nil {
		return RawTables{}, err
	}
	if t.Routes, err = src.LoadRoutes(ctx); err != nil {
		return RawTables{}, err
	}
	if t.Trips, err = src.LoadTrips(ctx); err != nil {
		return RawTables{}, err
	}
	if t.CalendarDates, err = src.LoadCalendarDates(ctx); err != nil {
		return RawTables{}, err
	}
	if t.StopTimes, err = src.LoadStopTimes(ctx); err != nil {
		return RawTables{}, err
	}
	if t.Stops, err = src.LoadStops(ctx); err != nil {
		return RawTables{}, err
	}
	return t, nil
}
