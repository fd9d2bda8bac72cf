package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts of the persisted series and of user-supplied dates.
const (
	SeriesDateLayout = "02/01/2006 15:04:05"
	InputDateLayout  = "02/01/2006"
)

// Series column names, in the order written to the series file.
const (
	ColumnDate    = "data"
	ColumnStation = "station"
)

// SeriesColumns is the header of the persisted series file: aggregated
// fields, then derived fields, then station decoration.
var SeriesColumns = []string{
	ColumnDate,
	"temperatura_bulbo_seco",
	"temperatura_media",
	"temperatura_minima",
	"temperatura_maxima",
	"umidade_media",
	"umidade_minima",
	"umidade_maxima",
	"pto_orvalho_medio",
	"pressao_instantanea",
	"vento_velocidade",
	"vento_rajada",
	"vento_direcao",
	"radiacao",
	"chuva",
	"vento_u2",
	"dr",
	"declinacao_solar",
	"angulo_hora_por_sol",
	"ra",
	ColumnStation,
	"latitude",
	"longitude",
	"altitude",
}

// Cells renders the record in SeriesColumns order with comma decimals.
func (d DailyRecord) Cells() []string {
	return []string{
		FormatSeriesDate(d.Date),
		FormatDecimal(d.TemperatureDryBulbMean),
		FormatDecimal(d.TemperatureMean),
		FormatDecimal(d.TemperatureMin),
		FormatDecimal(d.TemperatureMax),
		FormatDecimal(d.HumidityMean),
		FormatDecimal(d.HumidityMin),
		FormatDecimal(d.HumidityMax),
		FormatDecimal(d.DewpointMean),
		FormatDecimal(d.PressureMean),
		FormatDecimal(d.WindSpeedMean),
		FormatDecimal(d.WindGustMax),
		FormatDecimal(d.WindDirectionMean),
		FormatDecimal(d.RadiationSum),
		FormatDecimal(d.RainfallSum),
		FormatDecimal(d.WindU2),
		FormatFloat(d.Dr),
		FormatFloat(d.Declination),
		FormatFloat(d.SunsetHourAngle),
		FormatFloat(d.ExtraterrestrialRadiation),
		d.Station,
		FormatFloat(d.Latitude),
		FormatFloat(d.Longitude),
		FormatFloat(d.Altitude),
	}
}

// FormatSeriesDate renders a day as "DD/MM/YYYY 00:00:00".
func FormatSeriesDate(t time.Time) string {
	return Day(t).Format(SeriesDateLayout)
}

// seriesDateLayouts also accepts the ISO dates some older series files carry.
var seriesDateLayouts = []string{
	SeriesDateLayout,
	InputDateLayout,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseSeriesDate parses the date cell of a persisted series row.
func ParseSeriesDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range seriesDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse series date %q", s)
}

// ParseInputDate parses a user-supplied DD/MM/YYYY date. Blank input yields
// the zero time.
func ParseInputDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(InputDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q (want DD/MM/YYYY): %w", s, err)
	}
	return t, nil
}
