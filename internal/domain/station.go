package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Catalog columns (zero-based) of the automatic-station catalog.
const (
	catalogLatitudeCol  = 3
	catalogLongitudeCol = 4
	catalogAltitudeCol  = 5
	catalogCodeCol      = 7
)

// StationMetadata is the geometry of one automatic station.
// Longitudes are negative west of Greenwich.
type StationMetadata struct {
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// LookupStation finds the first catalog row whose code column equals code
// and parses its coordinates. It returns an error wrapping
// ErrMetadataNotFound when no row matches.
func LookupStation(code string, rows [][]string) (StationMetadata, error) {
	for _, row := range rows {
		if len(row) <= catalogCodeCol || row[catalogCodeCol] != code {
			continue
		}
		return parseStationRow(code, row)
	}
	return StationMetadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, code)
}

func parseStationRow(code string, row []string) (StationMetadata, error) {
	lat, err := parseCatalogNumber(row[catalogLatitudeCol])
	if err != nil {
		return StationMetadata{}, fmt.Errorf("station %s latitude: %w", code, err)
	}
	lon, err := parseCatalogNumber(row[catalogLongitudeCol])
	if err != nil {
		return StationMetadata{}, fmt.Errorf("station %s longitude: %w", code, err)
	}
	alt, err := parseCatalogNumber(row[catalogAltitudeCol])
	if err != nil {
		return StationMetadata{}, fmt.Errorf("station %s altitude: %w", code, err)
	}
	return StationMetadata{Code: code, Latitude: lat, Longitude: lon, Altitude: alt}, nil
}

// parseCatalogNumber parses a comma-decimal catalog cell. Unlike hourly
// cells, a bad coordinate is an error: the station cannot be placed.
func parseCatalogNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
