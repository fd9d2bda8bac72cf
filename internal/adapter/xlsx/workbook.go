// Package xlsx exports the daily series as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// Sheet names of the exported workbook.
const (
	SeriesSheet   = "serie"
	StationsSheet = "estacoes"
)

var stationsHeader = []string{"station", "dias", "primeira_data", "ultima_data"}

type stationSummary struct {
	code        string
	days        int
	first, last time.Time
}

// Write renders a series table (header plus rows, as stored) into a
// workbook with one sheet for the rows and one summarizing each station.
// Comma-decimal cells become numbers; blank cells stay empty.
func Write(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "INMET daily series",
		Creator: "inmet",
		Created: domain.Now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("set doc props: %w", err)
	}
	if err := f.SetSheetName("Sheet1", SeriesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	dateCol, stationCol := indexOf(header, domain.ColumnDate), indexOf(header, domain.ColumnStation)
	if err := writeRow(f, SeriesSheet, 1, stringsToAny(header)); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, SeriesSheet, i+2, seriesCells(row, dateCol, stationCol)); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SeriesSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.NewSheet(StationsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRow(f, StationsSheet, 1, stringsToAny(stationsHeader)); err != nil {
		return err
	}
	for i, s := range summarize(rows, dateCol, stationCol) {
		row := []any{s.code, s.days, domain.FormatSeriesDate(s.first), domain.FormatSeriesDate(s.last)}
		if err := writeRow(f, StationsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func seriesCells(row []string, dateCol, stationCol int) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch {
		case i == dateCol || i == stationCol:
			out[i] = v
		case v == "":
			out[i] = nil
		default:
			if n := domain.ParseDecimal(v); n != nil {
				out[i] = *n
			} else {
				out[i] = v
			}
		}
	}
	return out
}

// summarize counts rows per station in order of first appearance.
func summarize(rows [][]string, dateCol, stationCol int) []stationSummary {
	if stationCol < 0 {
		return nil
	}
	var out []stationSummary
	index := make(map[string]int)
	for _, row := range rows {
		if stationCol >= len(row) {
			continue
		}
		code := row[stationCol]
		i, ok := index[code]
		if !ok {
			i = len(out)
			index[code] = i
			out = append(out, stationSummary{code: code})
		}
		s := &out[i]
		s.days++
		if dateCol < 0 || dateCol >= len(row) {
			continue
		}
		d, err := domain.ParseSeriesDate(row[dateCol])
		if err != nil {
			continue
		}
		if s.first.IsZero() || d.Before(s.first) {
			s.first = d
		}
		if d.After(s.last) {
			s.last = d
		}
	}
	return out
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
