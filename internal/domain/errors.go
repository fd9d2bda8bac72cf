package domain

import "errors"

var (
	// ErrMetadataNotFound means the station code has no row in the catalog.
	ErrMetadataNotFound = errors.New("station metadata not found")

	// ErrFetch wraps failures of the raw hourly table source.
	ErrFetch = errors.New("fetch hourly table")

	// ErrPersistence wraps I/O failures of the series store.
	ErrPersistence = errors.New("series store")

	// ErrNoStations is returned when no station was requested and the series
	// holds none to reprocess.
	ErrNoStations = errors.New("no station specified and no existing series")
)
