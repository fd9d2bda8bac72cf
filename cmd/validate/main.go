// Command validate checks the integrity of a persisted daily series file:
// header columns, date cells, decimal cells and duplicate (station, date)
// keys. It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -series final_inmet_data.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/csvstore"
	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// maxReported caps the detailed errors printed per phase.
const maxReported = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	series := flag.String("series", "final_inmet_data.csv", "series file to validate")
	allowDuplicates := flag.Bool("allow-duplicates", false, "do not fail on repeated (station, date) keys")
	flag.Parse()

	f, err := os.Open(*series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open series: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	os.Exit(run(f, os.Stdout, *allowDuplicates))
}

func run(r io.Reader, out io.Writer, allowDuplicates bool) int {
	t, err := csvstore.Read(r)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "=== INMET Series Validation ===")
	fmt.Fprintln(out)

	phases := []*phase{
		validateHeader(t),
		validateDates(t),
		validateDecimals(t),
	}
	if !allowDuplicates {
		phases = append(phases, validateDuplicates(t))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-36s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nRows: %d\n", len(t.Rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Header ──

func validateHeader(t csvstore.Table) *phase {
	p := &phase{name: "Phase 1: Header"}
	if len(t.Header) == 0 {
		p.errorf("file has no header")
		return p
	}
	present := make(map[string]int, len(t.Header))
	for _, h := range t.Header {
		present[h]++
	}
	for _, col := range domain.SeriesColumns {
		if present[col] == 0 {
			p.errorf("missing column %q", col)
		}
	}
	for h, n := range present {
		if n > 1 {
			p.errorf("column %q appears %d times", h, n)
		}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			p.errorf("line %d: %d cells, header has %d", i+2, len(row), len(t.Header))
		}
	}
	return p
}

// ── Phase 2: Dates ──

func validateDates(t csvstore.Table) *phase {
	p := &phase{name: "Phase 2: Dates"}
	col := indexOf(t.Header, domain.ColumnDate)
	if col < 0 {
		p.errorf("no %q column", domain.ColumnDate)
		return p
	}
	for i, row := range t.Rows {
		v := cell(row, col)
		d, err := domain.ParseSeriesDate(v)
		if err != nil {
			p.errorf("line %d: unparseable date %q", i+2, v)
			continue
		}
		if d.Before(domain.DefaultEpoch.AddDate(-30, 0, 0)) || d.After(domain.Today().AddDate(0, 0, 1)) {
			p.errorf("line %d: date %s out of range", i+2, domain.FormatSeriesDate(d))
		}
	}
	return p
}

// ── Phase 3: Decimals ──

func validateDecimals(t csvstore.Table) *phase {
	p := &phase{name: "Phase 3: Decimal cells"}
	skip := map[string]bool{domain.ColumnDate: true, domain.ColumnStation: true}
	for i, row := range t.Rows {
		for j, h := range t.Header {
			v := cell(row, j)
			if skip[h] || v == "" {
				continue
			}
			if strings.Contains(v, ".") {
				p.errorf("line %d, %s: %q uses a dot decimal separator", i+2, h, v)
				continue
			}
			if domain.ParseDecimal(v) == nil {
				p.errorf("line %d, %s: %q is not a number", i+2, h, v)
			}
		}
	}
	return p
}

// ── Phase 4: Duplicates ──

func validateDuplicates(t csvstore.Table) *phase {
	p := &phase{name: "Phase 4: Unique (station, date)"}
	dateCol, stationCol := indexOf(t.Header, domain.ColumnDate), indexOf(t.Header, domain.ColumnStation)
	if dateCol < 0 || stationCol < 0 {
		return p
	}
	first := make(map[domain.SeriesKey]int)
	for i, row := range t.Rows {
		d, err := domain.ParseSeriesDate(cell(row, dateCol))
		if err != nil {
			continue
		}
		key := domain.SeriesKey{Station: cell(row, stationCol), Date: domain.Day(d)}
		if line, ok := first[key]; ok {
			p.errorf("line %d: %s %s already on line %d", i+2, key.Station, domain.FormatSeriesDate(key.Date), line)
			continue
		}
		first[key] = i + 2
	}
	return p
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
