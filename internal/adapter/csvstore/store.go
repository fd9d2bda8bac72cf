// Package csvstore persists the daily series as a semicolon-delimited CSV
// file with comma decimals.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// Table is the in-memory form of the series file.
type Table struct {
	Header []string
	Rows   [][]string
}

// column returns the index of name in the header, or -1.
func (t Table) column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Store is the CSV-file implementation of pipeline.SeriesStore.
type Store struct {
	path   string
	mode   domain.MergeMode
	logger *slog.Logger
}

// New creates a Store over the series file at path. The file need not exist.
func New(path string, mode domain.MergeMode, logger *slog.Logger) *Store {
	return &Store{path: path, mode: mode, logger: logger}
}

// Load reads the whole series file. A missing file yields an empty table
// with no header.
func (s *Store) Load() (Table, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a series table from r.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read series: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	return Table{Header: records[0], Rows: records[1:]}, nil
}

// LatestDate returns the greatest date persisted for station.
func (s *Store) LatestDate(_ context.Context, station string) (time.Time, bool, error) {
	t, err := s.Load()
	if err != nil {
		return time.Time{}, false, err
	}
	dateCol, stationCol := t.column(domain.ColumnDate), t.column(domain.ColumnStation)
	if dateCol < 0 || stationCol < 0 {
		return time.Time{}, false, nil
	}

	var latest time.Time
	found := false
	for _, row := range t.Rows {
		if cell(row, stationCol) != station {
			continue
		}
		d, err := domain.ParseSeriesDate(cell(row, dateCol))
		if err != nil {
			s.logger.Warn("skipping unparseable series date", "station", station, "value", cell(row, dateCol))
			continue
		}
		if !found || d.After(latest) {
			latest, found = d, true
		}
	}
	return latest, found, nil
}

// Stations returns the distinct station codes of the series in order of
// first appearance.
func (s *Store) Stations(_ context.Context) ([]string, error) {
	t, err := s.Load()
	if err != nil {
		return nil, err
	}
	col := t.column(domain.ColumnStation)
	if col < 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var codes []string
	for _, row := range t.Rows {
		code := cell(row, col)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

// Merge adds records to the series and rewrites the file atomically. New
// rows follow the existing header's column order; a new file gets
// domain.SeriesColumns.
func (s *Store) Merge(_ context.Context, records []domain.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}
	t, err := s.Load()
	if err != nil {
		return err
	}
	if len(t.Header) == 0 {
		t.Header = domain.SeriesColumns
	}

	replaced := 0
	if s.mode == domain.MergeUpsert {
		t.Rows, replaced = dropKeys(t, records)
	}
	for _, d := range records {
		t.Rows = append(t.Rows, align(t.Header, d.Cells()))
	}

	if err := s.write(t); err != nil {
		return err
	}
	s.logger.Debug("series merged",
		"path", s.path,
		"mode", s.mode,
		"added", len(records),
		"replaced", replaced,
		"rows", len(t.Rows),
	)
	return nil
}

// dropKeys removes rows sharing a (station, date) key with records.
func dropKeys(t Table, records []domain.DailyRecord) ([][]string, int) {
	dateCol, stationCol := t.column(domain.ColumnDate), t.column(domain.ColumnStation)
	if dateCol < 0 {
		return t.Rows, 0
	}
	keys := make(map[domain.SeriesKey]bool, len(records))
	for _, d := range records {
		keys[d.Key()] = true
	}

	kept := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		d, err := domain.ParseSeriesDate(cell(row, dateCol))
		if err == nil && keys[domain.SeriesKey{Station: cell(row, stationCol), Date: domain.Day(d)}] {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	return kept, dropped
}

// align reorders cells written in SeriesColumns order to header's order.
// Header columns unknown to the record are left blank.
func align(header, cells []string) []string {
	byName := make(map[string]string, len(cells))
	for i, name := range domain.SeriesColumns {
		byName[name] = cells[i]
	}
	row := make([]string, len(header))
	for i, name := range header {
		row[i] = byName[name]
	}
	return row
}

func (s *Store) write(t Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp series: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	w := csv.NewWriter(tmp)
	w.Comma = ';'
	if err := w.Write(t.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write series header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write series rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp series: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace series: %w", err)
	}
	return nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
