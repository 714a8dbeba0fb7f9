// Package cache persists a built schedule.Store as SQLite tables so a
// second run against unchanged raw tables can skip the Optimizer
// entirely. Storage uses modernc.org/sqlite (pure Go, no cgo) the way
// FabianUB-minibarcelona3d's poller and api services persist their own
// derived state.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	_ "modernc.org/sqlite"

	"github.com/antigravity/transit-raptor/internal/loader"
	"github.com/antigravity/transit-raptor/internal/obs"
	"github.com/antigravity/transit-raptor/internal/schedule"
)

// Cache wraps one SQLite database holding exactly one optimized
// schedule, keyed by a content hash of the raw tables it was built
// from.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path and ensures its
// schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)`,
		`CREATE TABLE IF NOT EXISTS stops (
			stop_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			parent_station INTEGER NOT NULL,
			platform_code TEXT NOT NULL,
			is_transfer INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trips (
			trip_id INTEGER PRIMARY KEY,
			short_name INTEGER NOT NULL,
			service_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trip_stop_times (
			trip_id INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			stop_id INTEGER NOT NULL,
			arrival_s INTEGER NOT NULL,
			departure_s INTEGER NOT NULL,
			PRIMARY KEY (trip_id, sequence)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrating cache schema: %w", err)
		}
	}
	return nil
}

// HashRawTables computes the cheap content hash that decides whether a
// cached store is stale, per spec.md §6's "format is an implementation
// choice so long as round-trip equivalence holds". It hashes table row
// counts plus every trip's identifying columns — enough to detect an
// added, removed, or renamed trip without hashing every stop_time row.
func HashRawTables(t loader.RawTables) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "agencies:%d routes:%d trips:%d calendar_dates:%d stop_times:%d stops:%d",
		len(t.Agencies), len(t.Routes), len(t.Trips), len(t.CalendarDates), len(t.StopTimes), len(t.Stops))
	for _, r := range t.Trips {
		fmt.Fprintf(h, "|%s:%s:%s", r.TripID, r.ServiceID, r.TripShortName)
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// Store overwrites the cache with s, tagged by rawHash.
func (c *Cache) Store(ctx context.Context, s *schedule.Store, rawHash string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache write: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM meta`, `DELETE FROM stops`, `DELETE FROM trips`, `DELETE FROM trip_stop_times`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES ('raw_hash', ?)`, rawHash); err != nil {
		return fmt.Errorf("writing cache meta: %w", err)
	}

	stopStmt, err := tx.PrepareContext(ctx, `INSERT INTO stops(stop_id, name, parent_station, platform_code, is_transfer) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stopStmt.Close()
	for i := 0; i < s.NumStops(); i++ {
		name, station, platformCode, isTransfer := s.StopInfo(schedule.StopID(i))
		if _, err := stopStmt.ExecContext(ctx, i, name, station, platformCode, boolToInt(isTransfer)); err != nil {
			return fmt.Errorf("writing stop %d: %w", i, err)
		}
	}

	tripStmt, err := tx.PrepareContext(ctx, `INSERT INTO trips(trip_id, short_name, service_date) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tripStmt.Close()

	rowStmt, err := tx.PrepareContext(ctx, `INSERT INTO trip_stop_times(trip_id, sequence, stop_id, arrival_s, departure_s) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer rowStmt.Close()

	for i := 0; i < s.NumTrips(); i++ {
		shortName, serviceDate := s.TripInfo(schedule.TripID(i))
		if _, err := tripStmt.ExecContext(ctx, i, shortName, serviceDate); err != nil {
			return fmt.Errorf("writing trip %d: %w", i, err)
		}
		for _, row := range s.TripStops(schedule.TripID(i)) {
			if _, err := rowStmt.ExecContext(ctx, i, row.Sequence, row.Stop, row.ArrivalTimeS, row.DepartureTimeS); err != nil {
				return fmt.Errorf("writing trip %d stop time: %w", i, err)
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds a Store from the cache if its stored hash matches
// rawHash. The bool return is false (with a nil error) on a cold or
// stale cache — not a failure, just a cache miss.
func (c *Cache) Load(ctx context.Context, rawHash string) (*schedule.Store, bool, error) {
	var storedHash string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'raw_hash'`).Scan(&storedHash)
	if err == sql.ErrNoRows {
		obs.CacheHits.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache meta: %w", err)
	}
	if storedHash != rawHash {
		obs.CacheHits.WithLabelValues("stale").Inc()
		return nil, false, nil
	}
	obs.CacheHits.WithLabelValues("hit").Inc()

	stopRows, err := c.db.QueryContext(ctx, `SELECT stop_id, name, parent_station, platform_code, is_transfer FROM stops ORDER BY stop_id`)
	if err != nil {
		return nil, false, fmt.Errorf("reading cached stops: %w", err)
	}
	defer stopRows.Close()

	var stops []schedule.Stop
	maxStation := -1
	for stopRows.Next() {
		var id, station, isTransfer int
		var st schedule.Stop
		if err := stopRows.Scan(&id, &st.Name, &station, &st.PlatformCode, &isTransfer); err != nil {
			return nil, false, fmt.Errorf("scanning cached stop: %w", err)
		}
		st.ParentStation = schedule.StationID(station)
		st.IsTransfer = isTransfer != 0
		stops = append(stops, st)
		if station > maxStation {
			maxStation = station
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, false, err
	}

	stationPlatforms := make([][]schedule.StopID, maxStation+1)
	for id, st := range stops {
		stationPlatforms[st.ParentStation] = append(stationPlatforms[st.ParentStation], schedule.StopID(id))
	}

	tripRows, err := c.db.QueryContext(ctx, `SELECT trip_id, short_name, service_date FROM trips ORDER BY trip_id`)
	if err != nil {
		return nil, false, fmt.Errorf("reading cached trips: %w", err)
	}
	defer tripRows.Close()

	var trips []schedule.Trip
	tripsByDate := make(map[string][]schedule.TripID)
	for tripRows.Next() {
		var id int
		var t schedule.Trip
		if err := tripRows.Scan(&id, &t.ShortName, &t.ServiceDate); err != nil {
			return nil, false, fmt.Errorf("scanning cached trip: %w", err)
		}
		trips = append(trips, t)
		tripsByDate[t.ServiceDate] = append(tripsByDate[t.ServiceDate], schedule.TripID(id))
	}
	if err := tripRows.Err(); err != nil {
		return nil, false, err
	}

	tripStopTimes := make([][]schedule.StopTime, len(trips))
	rowRows, err := c.db.QueryContext(ctx, `SELECT trip_id, sequence, stop_id, arrival_s, departure_s FROM trip_stop_times ORDER BY trip_id, sequence`)
	if err != nil {
		return nil, false, fmt.Errorf("reading cached stop times: %w", err)
	}
	defer rowRows.Close()
	for rowRows.Next() {
		var tripID, stopID, seq, arr, dep int
		if err := rowRows.Scan(&tripID, &seq, &stopID, &arr, &dep); err != nil {
			return nil, false, fmt.Errorf("scanning cached stop time: %w", err)
		}
		tripStopTimes[tripID] = append(tripStopTimes[tripID], schedule.StopTime{
			Stop:           schedule.StopID(stopID),
			Sequence:       uint16(seq),
			ArrivalTimeS:   uint32(arr),
			DepartureTimeS: uint32(dep),
		})
	}
	if err := rowRows.Err(); err != nil {
		return nil, false, err
	}

	b := schedule.NewBuilder(len(stops), len(trips))
	b.Stops = stops
	b.Trips = trips
	b.StationPlatforms = stationPlatforms
	b.TripStopTimes = tripStopTimes
	b.TripsByDate = tripsByDate

	return b.Freeze(), true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
