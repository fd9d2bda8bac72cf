package pipeline

import (
	"log/slog"
	"time"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// TransformStats summarizes one station's hourly-to-daily transformation.
type TransformStats struct {
	HourlyRows  int
	InvalidDays []time.Time
	Offset      time.Duration
}

// DailyTransformer implements Transformer using the domain stages in their
// fixed order: normalize, gate, timezone correction, aggregation.
type DailyTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a DailyTransformer.
func NewTransformer(logger *slog.Logger) *DailyTransformer {
	return &DailyTransformer{logger: logger}
}

func (t *DailyTransformer) Transform(meta domain.StationMetadata, rows [][]string, start, end time.Time) ([]domain.DailyRecord, TransformStats) {
	records := domain.NormalizeHourly(meta.Code, rows)
	invalid := domain.ApplyDayValidity(records)
	offset := domain.CorrectTimezone(records, meta.Longitude)
	daily := domain.AggregateDaily(meta, records, start, end)

	if len(invalid) > 0 {
		t.logger.Debug("days below hourly coverage threshold",
			"station", meta.Code,
			"days", len(invalid),
			"min_hours", domain.MinHoursPerDay,
		)
	}

	return daily, TransformStats{
		HourlyRows:  len(records),
		InvalidDays: invalid,
		Offset:      offset,
	}
}
