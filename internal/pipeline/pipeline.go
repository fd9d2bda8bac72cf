package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
	"github.com/CIDLAGOAVIVA/Inmet/internal/observability"
)

// StationResolver looks up station geometry by code.
type StationResolver interface {
	Resolve(ctx context.Context, code string) (domain.StationMetadata, error)
}

// HourlyFetcher supplies a station's raw hourly table rows for a date window.
type HourlyFetcher interface {
	FetchHourly(ctx context.Context, station string, start, end time.Time) ([][]string, error)
}

// Transformer turns raw rows into daily records for one station.
type Transformer interface {
	Transform(meta domain.StationMetadata, rows [][]string, start, end time.Time) ([]domain.DailyRecord, TransformStats)
}

// SeriesStore is the persisted daily series.
type SeriesStore interface {
	LatestDate(ctx context.Context, station string) (time.Time, bool, error)
	Stations(ctx context.Context) ([]string, error)
	Merge(ctx context.Context, records []domain.DailyRecord) error
}

// Publisher forwards merged daily records downstream.
type Publisher interface {
	Publish(ctx context.Context, records []domain.DailyRecord) error
}

// Request is one run's parameters. An empty Station reprocesses every
// station already present in the series; a zero Start resumes each station
// from its series.
type Request struct {
	Station string
	Start   time.Time
	End     time.Time
}

// Summary counts station outcomes of a run.
type Summary struct {
	Succeeded int
	Empty     int
	Failed    int
	Records   int
}

// Progress is a snapshot of the current or last run.
type Progress struct {
	Started  bool      `json:"started"`
	Running  bool      `json:"running"`
	Station  string    `json:"station,omitempty"`
	Done     int       `json:"done"`
	Total    int       `json:"total"`
	Summary  Summary   `json:"summary"`
	Finished time.Time `json:"finished,omitempty"`
}

// Pipeline orchestrates the per-station fetch-transform-merge loop.
type Pipeline struct {
	resolver    StationResolver
	fetcher     HourlyFetcher
	transformer Transformer
	store       SeriesStore
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu       sync.Mutex
	progress Progress
}

// New creates a Pipeline with the given stages and observability. A nil
// publisher disables publishing.
func New(r StationResolver, f HourlyFetcher, t Transformer, s SeriesStore, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver:    r,
		fetcher:     f,
		transformer: t,
		store:       s,
		publisher:   p,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run processes the requested stations sequentially. A failing station is
// logged and skipped; Run only returns an error when there is nothing to
// process or the station list cannot be read.
func (p *Pipeline) Run(ctx context.Context, req Request) (Summary, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	defer func() { p.metrics.LastRunTimestamp.Set(float64(domain.Now().Unix())) }()

	stations, err := p.stations(ctx, req.Station)
	if err != nil {
		return Summary{}, err
	}
	p.setProgress(func(pr *Progress) {
		*pr = Progress{Started: true, Running: true, Total: len(stations)}
	})

	p.logger.Info("run started", "stations", len(stations), "end", req.End.Format(time.DateOnly))

	var summary Summary
	for _, code := range stations {
		if ctx.Err() != nil {
			p.logger.Info("run stopping", "reason", ctx.Err())
			break
		}

		p.setProgress(func(pr *Progress) { pr.Station = code })
		start := time.Now()
		n, err := p.ProcessStation(ctx, code, req.Start, req.End)
		p.metrics.StationDuration.Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			summary.Failed++
			p.metrics.StationsProcessed.WithLabelValues(observability.OutcomeFailed).Inc()
			p.metrics.StationErrors.WithLabelValues(errorKind(err)).Inc()
			p.logger.Error("station failed", "station", code, "error", err)
		case n == 0:
			summary.Empty++
			p.metrics.StationsProcessed.WithLabelValues(observability.OutcomeEmpty).Inc()
		default:
			summary.Succeeded++
			summary.Records += n
			p.metrics.StationsProcessed.WithLabelValues(observability.OutcomeSuccess).Inc()
		}
		p.setProgress(func(pr *Progress) {
			pr.Done++
			pr.Summary = summary
		})
	}
	p.setProgress(func(pr *Progress) {
		pr.Running = false
		pr.Station = ""
		pr.Finished = domain.Now()
	})

	p.logger.Info("run finished",
		"succeeded", summary.Succeeded,
		"empty", summary.Empty,
		"failed", summary.Failed,
		"records", summary.Records,
	)
	return summary, nil
}

// ProcessStation runs the full pipeline for one station and returns the
// number of daily records merged into the series.
func (p *Pipeline) ProcessStation(ctx context.Context, code string, explicitStart, end time.Time) (int, error) {
	meta, err := p.resolver.Resolve(ctx, code)
	if err != nil {
		return 0, err
	}

	latest, found, err := p.store.LatestDate(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("%w: latest date: %w", domain.ErrPersistence, err)
	}
	start := domain.ResumeDate(explicitStart, latest, found)
	end = domain.Day(end)

	logger := p.logger.With("station", code)
	if start.After(end) {
		logger.Info("series already up to date", "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))
		return 0, nil
	}

	rows, err := p.fetcher.FetchHourly(ctx, code, start, end)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	if len(rows) == 0 {
		logger.Info("no hourly data available", "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))
		return 0, nil
	}

	daily, stats := p.transformer.Transform(meta, rows, start, end)
	p.metrics.HourlyRows.Add(float64(stats.HourlyRows))
	p.metrics.InvalidDays.Add(float64(len(stats.InvalidDays)))

	if len(daily) == 0 {
		logger.Info("no complete days in window",
			"hourly_rows", stats.HourlyRows,
			"invalid_days", len(stats.InvalidDays),
		)
		return 0, nil
	}

	if err := p.store.Merge(ctx, daily); err != nil {
		return 0, fmt.Errorf("%w: merge: %w", domain.ErrPersistence, err)
	}
	p.metrics.DailyRecords.Add(float64(len(daily)))

	logger.Info("station saved",
		"records", len(daily),
		"hourly_rows", stats.HourlyRows,
		"invalid_days", len(stats.InvalidDays),
		"offset", stats.Offset.String(),
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
	)

	p.publish(ctx, logger, daily)
	return len(daily), nil
}

// publish forwards merged rows. The series is the source of truth, so a
// publish failure is only logged.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, daily []domain.DailyRecord) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, daily); err != nil {
		logger.Warn("publish daily records failed", "error", err, "records", len(daily))
		return
	}
	p.metrics.RecordsPublished.Add(float64(len(daily)))
}

// Progress returns a snapshot of the run.
func (p *Pipeline) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// CheckReadiness reports an error until a run has started.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.Progress().Started {
		return errors.New("run not started")
	}
	return nil
}

func (p *Pipeline) setProgress(update func(*Progress)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.progress)
}

func (p *Pipeline) stations(ctx context.Context, code string) ([]string, error) {
	if code != "" {
		return []string{code}, nil
	}
	stations, err := p.store.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list stations: %w", domain.ErrPersistence, err)
	}
	if len(stations) == 0 {
		return nil, domain.ErrNoStations
	}
	return stations, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMetadataNotFound):
		return "metadata_not_found"
	case errors.Is(err, domain.ErrFetch):
		return "fetch"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}
