// Package inmetapi fetches hourly observations from the INMET weather API
// and lays them out as raw table rows.
package inmetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
)

// DefaultBaseURL is the public INMET API.
const DefaultBaseURL = "https://apitempo.inmet.gov.br"

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 8 * time.Second
)

// Client implements pipeline.HourlyFetcher over the INMET API.
type Client struct {
	token      string
	retries    int
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an INMET API client. An empty token uses the public
// endpoint; retries applies to transport errors and 5xx responses only.
func NewClient(baseURL, token string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   token,
		retries: retries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchHourly returns the station's observations for [start, end] as rows
// in the station table's column order. An empty window yields no rows.
func (c *Client) FetchHourly(ctx context.Context, station string, start, end time.Time) ([][]string, error) {
	body, err := c.get(ctx, c.endpoint(station, start, end))
	if err != nil {
		return nil, err
	}
	// The API answers 204 or an empty body when the station has no data.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var obs []observation
	if err := json.Unmarshal(body, &obs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rows := make([][]string, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, o.row())
	}
	c.logger.Debug("api observations fetched", "station", station, "rows", len(rows))
	return rows, nil
}

func (c *Client) endpoint(station string, start, end time.Time) string {
	from, to := start.Format(time.DateOnly), end.Format(time.DateOnly)
	if c.token != "" {
		return fmt.Sprintf("%s/token/estacao/%s/%s/%s/%s", c.baseURL, from, to, url.PathEscape(station), url.PathEscape(c.token))
	}
	return fmt.Sprintf("%s/estacao/%s/%s/%s", c.baseURL, from, to, url.PathEscape(station))
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	backoff := initialBackoff
	for attempt := 0; ; attempt++ {
		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		var perm permanentError
		if errors.As(err, &perm) || attempt >= c.retries {
			return nil, err
		}
		c.logger.Warn("inmet api request failed, retrying", "attempt", attempt+1, "backoff", backoff, "error", err)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return nil, ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, permanentError{fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inmet api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("inmet api error: status %d: %s", resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		return nil, permanentError{fmt.Errorf("inmet api error: status %d: %s", resp.StatusCode, body)}
	}
	return body, nil
}

// permanentError marks failures a retry cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// INMET API response types.

// cell accepts a JSON string, number, or null.
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = cell(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = cell(n.String())
	return nil
}

type observation struct {
	Date          cell `json:"DT_MEDICAO"`
	Hour          cell `json:"HR_MEDICAO"`
	TempInst      cell `json:"TEM_INS"`
	TempMax       cell `json:"TEM_MAX"`
	TempMin       cell `json:"TEM_MIN"`
	HumidityInst  cell `json:"UMD_INS"`
	HumidityMax   cell `json:"UMD_MAX"`
	HumidityMin   cell `json:"UMD_MIN"`
	DewpointInst  cell `json:"PTO_INS"`
	DewpointMax   cell `json:"PTO_MAX"`
	DewpointMin   cell `json:"PTO_MIN"`
	PressureInst  cell `json:"PRE_INS"`
	PressureMax   cell `json:"PRE_MAX"`
	PressureMin   cell `json:"PRE_MIN"`
	WindSpeed     cell `json:"VEN_VEL"`
	WindDirection cell `json:"VEN_DIR"`
	WindGust      cell `json:"VEN_RAJ"`
	Radiation     cell `json:"RAD_GLO"`
	Rainfall      cell `json:"CHUVA"`
}

// row lays the observation out in the station table's 19-column order.
func (o observation) row() []string {
	return []string{
		string(o.Date), string(o.Hour),
		string(o.TempInst), string(o.TempMax), string(o.TempMin),
		string(o.HumidityInst), string(o.HumidityMax), string(o.HumidityMin),
		string(o.DewpointInst), string(o.DewpointMax), string(o.DewpointMin),
		string(o.PressureInst), string(o.PressureMax), string(o.PressureMin),
		string(o.WindSpeed), string(o.WindDirection), string(o.WindGust),
		string(o.Radiation), string(o.Rainfall),
	}
}
