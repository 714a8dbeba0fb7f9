package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads the six required tables from a relational
// database that mirrors the GTFS-shaped schema, one query per table —
// the same pgxpool.Pool / rows.Scan shape the teacher's own
// routing.Loader uses, minus the PostGIS-specific geometry columns
// that have no counterpart in spec.md's data model.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func (p PostgresSource) LoadAgencies(ctx context.Context) ([]RawAgency, error) {
	rows, err := p.Pool.Query(ctx, `SELECT agency_id FROM agencies`)
	if err != nil {
		return nil, fmt.Errorf("loading agencies: %w", err)
	}
	defer rows.Close()

	var out []RawAgency
	for rows.Next() {
		var a RawAgency
		if err := rows.Scan(&a.AgencyID); err != nil {
			return nil, fmt.Errorf("scanning agency row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p PostgresSource) LoadRoutes(ctx context.Context) ([]RawRoute, error) {
	rows, err := p.Pool.Query(ctx, `SELECT route_id FROM routes`)
	if err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}
	defer rows.Close()

	var out []RawRoute
	for rows.Next() {
		var r RawRoute
		if err := rows.Scan(&r.RouteID); err != nil {
			return nil, fmt.Errorf("scanning route row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p PostgresSource) LoadTrips(ctx context.Context) ([]RawTrip, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT trip_id, service_id, trip_short_name, COALESCE(shape_id, '')
		FROM trips
	`)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	defer rows.Close()

	var out []RawTrip
	for rows.Next() {
		var t RawTrip
		if err := rows.Scan(&t.TripID, &t.ServiceID, &t.TripShortName, &t.ShapeID); err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p PostgresSource) LoadCalendarDates(ctx context.Context) ([]RawCalendarDate, error) {
	rows, err := p.Pool.Query(ctx, `SELECT service_id, date FROM calendar_dates`)
	if err != nil {
		return nil, fmt.Errorf("loading calendar_dates: %w", err)
	}
	defer rows.Close()

	var out []RawCalendarDate
	for rows.Next() {
		var c RawCalendarDate
		if err := rows.Scan(&c.ServiceID, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning calendar_dates row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p PostgresSource) LoadStopTimes(ctx context.Context) ([]RawStopTime, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT trip_id, stop_id, stop_sequence, arrival_time, departure_time
		FROM stop_times
	`)
	if err != nil {
		return nil, fmt.Errorf("loading stop_times: %w", err)
	}
	defer rows.Close()

	var out []RawStopTime
	for rows.Next() {
		var st RawStopTime
		if err := rows.Scan(&st.TripID, &st.StopID, &st.StopSequence, &st.ArrivalTime, &st.DepartureTime); err != nil {
			return nil, fmt.Errorf("scanning stop_times row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (p PostgresSource) LoadStops(ctx context.Context) ([]RawStop, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT stop_id, stop_name, COALESCE(platform_code, ''), COALESCE(parent_station, '')
		FROM stops
	`)
	if err != nil {
		return nil, fmt.Errorf("loading stops: %w", err)
	}
	defer rows.Close()

	var out []RawStop
	for rows.Next() {
		var s RawStop
		if err := rows.Scan(&s.StopID, &s.StopName, &s.PlatformCode, &s.ParentStation); err != nil {
			return nil, fmt.Errorf("scanning stop row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ Source = PostgresSource{}
