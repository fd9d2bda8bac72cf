// Package sqlite persists the daily series in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/insert-daily.sql
var insertDailySQL string

//go:embed sql/select-daily.sql
var selectDailySQL string

const (
	latestDateSQL    = `SELECT MAX(date) FROM daily_series WHERE station = ?`
	stationsSQL      = `SELECT station FROM daily_series GROUP BY station ORDER BY MIN(id)`
	deleteDailySQL   = `DELETE FROM daily_series WHERE station = ? AND date = ?`
	storedDateLayout = time.DateOnly
)

// Store is the SQLite implementation of pipeline.SeriesStore.
type Store struct {
	db     *sql.DB
	mode   domain.MergeMode
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, mode domain.MergeMode, logger *slog.Logger) (*Store, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, mode: mode, logger: logger}, nil
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LatestDate returns the greatest date stored for station.
func (s *Store) LatestDate(ctx context.Context, station string) (time.Time, bool, error) {
	var latest sql.NullString
	if err := s.db.QueryRowContext(ctx, latestDateSQL, station).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("query latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(storedDateLayout, latest.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse stored date %q: %w", latest.String, err)
	}
	return t, true, nil
}

// Stations returns the distinct station codes in order of first insertion.
func (s *Store) Stations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, stationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("close stations rows", "error", err)
		}
	}()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Merge inserts records in one transaction. In upsert mode rows sharing a
// (station, date) key are deleted first.
func (s *Store) Merge(ctx context.Context, records []domain.DailyRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var replaced int64
	for _, d := range records {
		date := domain.Day(d.Date).Format(storedDateLayout)
		if s.mode == domain.MergeUpsert {
			res, err := tx.ExecContext(ctx, deleteDailySQL, d.Station, date)
			if err != nil {
				return fmt.Errorf("delete %s %s: %w", d.Station, date, err)
			}
			n, _ := res.RowsAffected()
			replaced += n
		}
		if _, err := tx.ExecContext(ctx, insertDailySQL, insertArgs(d, date)...); err != nil {
			return fmt.Errorf("insert %s %s: %w", d.Station, date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}

	s.logger.Debug("series merged", "mode", s.mode, "added", len(records), "replaced", replaced)
	return nil
}

// Records returns every stored row in insertion order.
func (s *Store) Records(ctx context.Context) ([]domain.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectDailySQL)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("close series rows", "error", err)
		}
	}()

	var out []domain.DailyRecord
	for rows.Next() {
		var (
			d       domain.DailyRecord
			date    string
			derived [4]sql.NullFloat64
		)
		if err := rows.Scan(scanArgs(&d, &date, &derived)...); err != nil {
			return nil, err
		}
		d.Dr, d.Declination = orNaN(derived[0]), orNaN(derived[1])
		d.SunsetHourAngle, d.ExtraterrestrialRadiation = orNaN(derived[2]), orNaN(derived[3])
		if d.Date, err = time.Parse(storedDateLayout, date); err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func insertArgs(d domain.DailyRecord, date string) []any {
	return []any{
		d.Station, date, d.Latitude, d.Longitude, d.Altitude,
		d.TemperatureDryBulbMean, d.TemperatureMean, d.TemperatureMin, d.TemperatureMax,
		d.HumidityMean, d.HumidityMin, d.HumidityMax, d.DewpointMean, d.PressureMean,
		d.WindSpeedMean, d.WindGustMax, d.WindDirectionMean, d.RadiationSum, d.RainfallSum,
		d.WindU2, d.Dr, d.Declination, d.SunsetHourAngle, d.ExtraterrestrialRadiation,
	}
}

// scanArgs mirrors insertArgs; *float64 fields scan NULL as nil. SQLite
// stores NaN as NULL, so the solar geometry columns go through derived.
func scanArgs(d *domain.DailyRecord, date *string, derived *[4]sql.NullFloat64) []any {
	return []any{
		&d.Station, date, &d.Latitude, &d.Longitude, &d.Altitude,
		&d.TemperatureDryBulbMean, &d.TemperatureMean, &d.TemperatureMin, &d.TemperatureMax,
		&d.HumidityMean, &d.HumidityMin, &d.HumidityMax, &d.DewpointMean, &d.PressureMean,
		&d.WindSpeedMean, &d.WindGustMax, &d.WindDirectionMean, &d.RadiationSum, &d.RainfallSum,
		&d.WindU2, &derived[0], &derived[1], &derived[2], &derived[3],
	}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
