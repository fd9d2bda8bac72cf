// Package domain models the INMET automatic weather station data and the
// hourly-to-daily climatological transformation.
//
// # Data Source
//
// Hourly readings come from the INMET station table pages
// (https://tempo.inmet.gov.br/TabelaEstacoes/<CODE>). The table is extracted
// upstream into rows of text cells; this package never touches the page.
// Station geometry comes from the automatic-station catalog
// (CatalogoEstacoesAutomaticas.csv), a headerless ";" file.
//
// # INMET Table Conventions
//
// Column order (19 cells per row):
//
//	data; hora; temp. inst; temp. max; temp. min; umid. inst; umid. max;
//	umid. min; pto orvalho inst; pto orvalho max; pto orvalho min;
//	pressao inst; pressao max; pressao min; vento vel; vento dir;
//	vento rajada; radiacao; chuva
//
// Numbers use a comma as decimal separator: "23,4" = 23.4. Blank or
// unparseable cells are missing values (nil), never errors.
//
// Time format:
//
//	Dates are DD/MM/YYYY. Hours are "HHMM" ("1500") or "HH:MM" ("15:00").
//
// # Daily Aggregation
//
// A calendar day is only usable when it has at least [MinHoursPerDay] hourly
// rows. Timestamps are then shifted by a whole-hour offset chosen from the
// station longitude ([TimezoneOffset]) and grouped per shifted calendar day.
// Reductions propagate missing values: a mean, min, max or sum over a day
// that contains a missing reading is itself missing.
//
// Daily rows also carry the FAO-56 extraterrestrial radiation terms
// ([SolarRadiation]) and the 2 m wind speed ([WindU2]) used by
// evapotranspiration models.
package domain
