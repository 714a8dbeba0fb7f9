package loader

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVSource reads the six required tables from a directory or a zip
// archive of GTFS-shaped ".txt" files, one file per table. Missing
// files yield an empty table rather than an error — spec.md only
// requires agencies/routes columns to exist when present, since the
// core never reads them.
type CSVSource struct {
	// Dir, when non-empty, is a directory containing the .txt files.
	Dir string
	// ZipPath, when non-empty, is a zip archive containing them.
	ZipPath string
}

func (c CSVSource) open(name string) (io.ReadCloser, error) {
	if c.ZipPath != "" {
		r, err := zip.OpenReader(c.ZipPath)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", c.ZipPath, err)
		}
		for _, f := range r.File {
			if f.Name == name {
				rc, err := f.Open()
				if err != nil {
					r.Close()
					return nil, fmt.Errorf("opening %s in %s: %w", name, c.ZipPath, err)
				}
				return zipEntry{rc, r}, nil
			}
		}
		r.Close()
		return nil, os.ErrNotExist
	}

	f, err := os.Open(filepath.Join(c.Dir, name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// zipEntry closes both the file entry and the enclosing archive.
type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

func unmarshalFile[T any](c CSVSource, name string) ([]T, error) {
	f, err := c.open(name)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return rows, nil
}

func (c CSVSource) LoadAgencies(ctx context.Context) ([]RawAgency, error) {
	return unmarshalFile[RawAgency](c, "agency.txt")
}

func (c CSVSource) LoadRoutes(ctx context.Context) ([]RawRoute, error) {
	return unmarshalFile[RawRoute](c, "routes.txt")
}

func (c CSVSource) LoadTrips(ctx context.Context) ([]RawTrip, error) {
	return unmarshalFile[RawTrip](c, "trips.txt")
}

func (c CSVSource) LoadCalendarDates(ctx context.Context) ([]RawCalendarDate, error) {
	return unmarshalFile[RawCalendarDate](c, "calendar_dates.txt")
}

func (c CSVSource) LoadStopTimes(ctx context.Context) ([]RawStopTime, error) {
	return unmarshalFile[RawStopTime](c, "stop_times.txt")
}

func (c CSVSource) LoadStops(ctx context.Context) ([]RawStop, error) {
	return unmarshalFile[RawStop](c, "stops.txt")
}

var _ Source = CSVSource{}
