// Package catalog reads the INMET automatic-station catalog and resolves
// station codes to their geometry.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// Catalog holds the rows of a headerless ";" separated station catalog.
// It implements pipeline.StationResolver.
type Catalog struct {
	rows [][]string
}

// Load reads the catalog file at path, decoding it from the named encoding.
func Load(path, enc string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f, enc)
}

// Parse reads a catalog from r.
func Parse(r io.Reader, enc string) (*Catalog, error) {
	dec, err := decoder(enc)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		// INMET publishes the catalog in Latin-1 (station names carry accents).
		r = transform.NewReader(r, dec.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &Catalog{rows: rows}, nil
}

// Resolve returns the metadata of the first catalog row for code.
func (c *Catalog) Resolve(_ context.Context, code string) (domain.StationMetadata, error) {
	return domain.LookupStation(code, c.rows)
}

// Len is the number of catalog rows.
func (c *Catalog) Len() int {
	return len(c.rows)
}

func decoder(name string) (encoding.Encoding, error) {
	switch name {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported catalog encoding %q", name)
	}
}
