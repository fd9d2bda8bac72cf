package htmltable

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><body>
<div class="left menu"><i class="bars icon header-icon"></i></div>
<table>
  <thead>
    <tr><th>Data</th><th>Hora (UTC)</th><th>Temp. Ins. (C)</th></tr>
  </thead>
  <tbody>
    <tr><td>01/06/2024</td><td>0000</td><td> 22,5 </td><td></td></tr>
    <tr><td> </td><td></td><td></td><td></td></tr>
    <tr><td>01/06/2024</td><td><span>0100</span></td><td>21,9</td><td>0,2</td></tr>
  </tbody>
</table>
<table><tr><td>other</td></tr></table>
</body></html>`

func TestExtractRows(t *testing.T) {
	rows, err := ExtractRows(strings.NewReader(testPage))
	require.NoError(t, err)

	expected := [][]string{
		{"01/06/2024", "0000", "22,5", ""},
		{"01/06/2024", "0100", "21,9", "0,2"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractRows_NoTable(t *testing.T) {
	_, err := ExtractRows(strings.NewReader("<html><body><p>carregando</p></body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table")
}

func TestSource_FetchHourly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A001.html"), []byte(testPage), 0o600))

	src := NewSource(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows, err := src.FetchHourly(context.Background(), "A001", start, start)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = src.FetchHourly(context.Background(), "B002", start, start)
	require.ErrorIs(t, err, os.ErrNotExist)
}
