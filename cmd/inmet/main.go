// Command inmet runs the INMET hourly-to-daily ETL once: for one station, or
// for every station already in the series, it fetches the hourly table,
// gates and aggregates it to daily rows, and merges them into the series.
//
// Usage:
//
//	inmet -station A001 -start 01/06/2024 -end 30/06/2024
//	inmet                      # resume every station in the series up to today
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/catalog"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/csvstore"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/htmltable"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/httpadapter"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/inmetapi"
	kafkaadapter "github.com/CIDLAGOAVIVA/Inmet/internal/adapter/kafka"
	"github.com/CIDLAGOAVIVA/Inmet/internal/adapter/sqlite"
	"github.com/CIDLAGOAVIVA/Inmet/internal/config"
	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
	"github.com/CIDLAGOAVIVA/Inmet/internal/observability"
	"github.com/CIDLAGOAVIVA/Inmet/internal/pipeline"
)

func main() {
	station := flag.String("station", "", "station code (empty: every station in the series)")
	start := flag.String("start", "", "first day DD/MM/YYYY (empty: resume from the series)")
	end := flag.String("end", "", "last day DD/MM/YYYY (empty: today)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	req, err := buildRequest(*station, *start, *end)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, req, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func buildRequest(station, start, end string) (pipeline.Request, error) {
	req := pipeline.Request{Station: station}
	var err error
	if req.Start, err = domain.ParseInputDate(start); err != nil {
		return req, err
	}
	if req.End, err = domain.ParseInputDate(end); err != nil {
		return req, err
	}
	if req.End.IsZero() {
		req.End = domain.Today()
	}
	return req, nil
}

func run(ctx context.Context, cfg *config.Config, req pipeline.Request, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	stations, err := catalog.Load(cfg.CatalogPath, cfg.CatalogEncoding)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "rows", stations.Len())

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	transformer := pipeline.NewTransformer(logger)
	p := pipeline.New(stations, newFetcher(cfg, logger), transformer, store, publisher, logger, metrics)

	if cfg.StatusAddr != "" {
		srv := httpadapter.NewServer(cfg.StatusAddr, p, metrics.Gatherer(), logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("status server shutdown error", "error", err)
			}
		}()
	}

	summary, runErr := p.Run(ctx, req)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile write error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if summary.Failed > 0 && summary.Succeeded == 0 && summary.Empty == 0 {
		return errors.New("every station failed")
	}
	return nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) pipeline.HourlyFetcher {
	if cfg.FetchSource == config.SourceAPI {
		logger.Info("hourly source", "source", cfg.FetchSource, "url", cfg.InmetAPIURL, "retries", cfg.InmetAPIRetries)
		return inmetapi.NewClient(cfg.InmetAPIURL, cfg.InmetAPIToken, cfg.InmetAPITimeout, cfg.InmetAPIRetries, logger)
	}
	logger.Info("hourly source", "source", cfg.FetchSource, "dir", cfg.RawTableDir)
	return htmltable.NewSource(cfg.RawTableDir, logger)
}

func openStore(cfg *config.Config, logger *slog.Logger) (pipeline.SeriesStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath, cfg.MergeMode, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("series store", "backend", cfg.StoreBackend, "path", cfg.SQLitePath, "merge_mode", cfg.MergeMode)
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Error("sqlite close error", "error", err)
			}
		}, nil
	default:
		logger.Info("series store", "backend", cfg.StoreBackend, "path", cfg.SeriesPath, "merge_mode", cfg.MergeMode)
		return csvstore.New(cfg.SeriesPath, cfg.MergeMode, logger), func() {}, nil
	}
}
