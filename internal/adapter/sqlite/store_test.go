package sqlite

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

func f(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func record(station string, date time.Time, rain *float64) domain.DailyRecord {
	geo := domain.SolarRadiation(-15, date)
	return domain.DailyRecord{
		Date:                      date,
		Station:                   station,
		Latitude:                  -15,
		Longitude:                 -47,
		Altitude:                  1000,
		TemperatureMean:           f(21.5),
		RainfallSum:               rain,
		WindU2:                    domain.WindU2(f(2)),
		Dr:                        geo.Dr,
		Declination:               geo.Declination,
		SunsetHourAngle:           geo.SunsetHourAngle,
		ExtraterrestrialRadiation: geo.ExtraterrestrialRadiation,
	}
}

func openStore(t *testing.T, mode domain.MergeMode) *Store {
	t.Helper()
	s, err := Open(":memory:", mode, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return s
}

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	dsn, err := buildDSN(filepath.Join(dir, "data", "serie.db"))
	require.NoError(t, err)
	assert.Equal(t, "file:"+filepath.Join(dir, "data", "serie.db")+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dsn)
	assert.DirExists(t, filepath.Join(dir, "data"))

	dsn, err = buildDSN("file:" + filepath.Join(dir, "x.db") + "?cache=shared")
	require.NoError(t, err)
	assert.Contains(t, dsn, "?cache=shared&_foreign_keys=on")
}

func TestStore_Empty(t *testing.T) {
	s := openStore(t, domain.MergeAppend)
	ctx := context.Background()

	_, found, err := s.LatestDate(ctx, "A001")
	require.NoError(t, err)
	assert.False(t, found)

	codes, err := s.Stations(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestStore_MergeAndRead(t *testing.T) {
	s := openStore(t, domain.MergeAppend)
	ctx := context.Background()

	in := []domain.DailyRecord{
		record("A001", day(2024, 6, 9), f(4)),
		record("A001", day(2024, 6, 10), nil),
		record("B002", day(2024, 6, 1), f(0)),
	}
	require.NoError(t, s.Merge(ctx, in))

	latest, found, err := s.LatestDate(ctx, "A001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, day(2024, 6, 10), latest)

	codes, err := s.Stations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A001", "B002"}, codes)

	out, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, in[0].Date, out[0].Date)
	require.NotNil(t, out[0].RainfallSum)
	assert.InDelta(t, 4.0, *out[0].RainfallSum, 1e-9)
	assert.Nil(t, out[1].RainfallSum)
	assert.Nil(t, out[1].HumidityMean)
	assert.InDelta(t, in[0].ExtraterrestrialRadiation, out[0].ExtraterrestrialRadiation, 1e-9)
}

func TestStore_AppendKeepsDuplicates(t *testing.T) {
	s := openStore(t, domain.MergeAppend)
	ctx := context.Background()
	require.NoError(t, s.Merge(ctx, []domain.DailyRecord{record("A001", day(2024, 6, 1), f(1))}))
	require.NoError(t, s.Merge(ctx, []domain.DailyRecord{record("A001", day(2024, 6, 1), f(2))}))

	out, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestStore_UpsertReplaces(t *testing.T) {
	s := openStore(t, domain.MergeUpsert)
	ctx := context.Background()
	require.NoError(t, s.Merge(ctx, []domain.DailyRecord{
		record("A001", day(2024, 6, 1), f(1)),
		record("A001", day(2024, 6, 2), f(1)),
	}))
	require.NoError(t, s.Merge(ctx, []domain.DailyRecord{record("A001", day(2024, 6, 1), f(2))}))

	out, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, day(2024, 6, 2), out[0].Date)
	assert.Equal(t, day(2024, 6, 1), out[1].Date)
	assert.InDelta(t, 2.0, *out[1].RainfallSum, 1e-9)
}

func TestStore_NaNGeometryRoundTrips(t *testing.T) {
	s := openStore(t, domain.MergeAppend)
	ctx := context.Background()
	d := record("A001", day(2024, 6, 1), f(0))
	d.SunsetHourAngle = math.NaN()
	d.ExtraterrestrialRadiation = math.NaN()
	require.NoError(t, s.Merge(ctx, []domain.DailyRecord{d}))

	out, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, math.IsNaN(out[0].SunsetHourAngle))
	assert.True(t, math.IsNaN(out[0].ExtraterrestrialRadiation))
}
