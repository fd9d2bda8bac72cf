// Command export writes the persisted daily series to an Excel workbook.
//
// Usage:
//
//	export -out serie_inmet.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/csvstore"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/sqlite"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/xlsx"
	"github.com/CIDLAGOAVIVA/Inmet/internal/config"
	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
	"github.com/CIDLAGOAVIVA/Inmet/internal/observability"
)

func main() {
	out := flag.String("out", "serie_inmet.xlsx", "workbook to write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, *out, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out string, logger *slog.Logger) error {
	header, rows, err := loadSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		return fmt.Errorf("series is empty")
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := xlsx.Write(f, header, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}

	logger.Info("series exported", "path", out, "rows", len(rows))
	return nil
}

// loadSeries returns the series as stored: the file's own header for the
// CSV backend, SeriesColumns for SQLite.
func loadSeries(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]string, [][]string, error) {
	if cfg.StoreBackend != config.BackendSQLite {
		t, err := csvstore.New(cfg.SeriesPath, cfg.MergeMode, logger).Load()
		if err != nil {
			return nil, nil, err
		}
		return t.Header, t.Rows, nil
	}

	s, err := sqlite.Open(cfg.SQLitePath, cfg.MergeMode, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite store: %w", err)
	}
	defer s.Close()

	records, err := s.Records(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	rows := make([][]string, len(records))
	for i, d := range records {
		rows[i] = d.Cells()
	}
	return domain.SeriesColumns, rows, nil
}
