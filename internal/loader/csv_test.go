package loader

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVSourceLoadsAllTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stops.txt", "stop_id,stop_name,platform_code,parent_station\nA1,A,,SA\nB1,B,,SB\n")
	writeFile(t, dir, "trips.txt", "trip_id,service_id,trip_short_name,shape_id\nT1,WD,1,\n")
	writeFile(t, dir, "calendar_dates.txt", "service_id,date\nWD,20260801\n")
	writeFile(t, dir, "stop_times.txt", "trip_id,stop_id,stop_sequence,arrival_time,departure_time\nT1,A1,1,08:00:00,08:00:00\nT1,B1,2,08:10:00,08:10:00\n")

	src := CSVSource{Dir: dir}
	tables, err := LoadAll(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, tables.Stops, 2)
	assert.Equal(t, "A1", tables.Stops[0].StopID)
	require.Len(t, tables.Trips, 1)
	assert.Equal(t, "1", tables.Trips[0].TripShortName)
	require.Len(t, tables.CalendarDates, 1)
	require.Len(t, tables.StopTimes, 2)
	assert.Empty(t, tables.Agencies)
	assert.Empty(t, tables.Routes)
}

func TestCSVSourceMissingFileYieldsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	src := CSVSource{Dir: dir}
	agencies, err := src.LoadAgencies(context.Background())
	require.NoError(t, err)
	assert.Nil(t, agencies)
}

func TestCSVSourceReadsFromZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "feed.zip")
	writeZip(t, zipPath, map[string]string{
		"stops.txt": "stop_id,stop_name,platform_code,parent_station\nA1,A,,SA\n",
	})

	src := CSVSource{ZipPath: zipPath}
	stops, err := src.LoadStops(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "A1", stops[0].StopID)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
