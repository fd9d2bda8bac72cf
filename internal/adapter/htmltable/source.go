// Package htmltable extracts hourly rows from saved INMET station table
// pages. It stands in for the browser-driven fetch: each page is expected at
// <dir>/<CODE>.html, already rendered for the requested window.
package htmltable

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Source reads station pages from a directory.
// It implements pipeline.HourlyFetcher.
type Source struct {
	dir    string
	logger *slog.Logger
}

// NewSource creates a Source over dir.
func NewSource(dir string, logger *slog.Logger) *Source {
	return &Source{dir: dir, logger: logger}
}

// FetchHourly returns the rows of the first table in the station's page.
// The window is not applied here; the aggregator filters by date.
func (s *Source) FetchHourly(ctx context.Context, station string, start, end time.Time) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, station+".html")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table page: %w", err)
	}
	defer f.Close()

	rows, err := ExtractRows(f)
	if err != nil {
		return nil, fmt.Errorf("extract table %s: %w", path, err)
	}

	s.logger.Debug("table extracted",
		"station", station,
		"path", path,
		"rows", len(rows),
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
	)
	return rows, nil
}

// ExtractRows parses an HTML document and returns the trimmed <td> texts of
// every row of its first <table>. Rows without data cells (headers) and rows
// whose cells are all blank are skipped. Blank cells keep their position.
func ExtractRows(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("no table found")
	}

	var rows [][]string
	walk(table, func(n *html.Node) bool {
		if n.DataAtom != atom.Tr {
			return true
		}
		if cells := rowCells(n); !blank(cells) {
			rows = append(rows, cells)
		}
		return false
	})
	return rows, nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Td {
			cells = append(cells, strings.TrimSpace(textContent(c)))
		}
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.Type == html.ElementNode && c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth-first; visit returns false to
// skip a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
