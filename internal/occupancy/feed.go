// Package occupancy ingests the canteen occupancy feed and persists its
// samples for the read API.
//
// The upstream feed is a plain-text document with one sample per line in
// the form "HH:MM;movingAverage;activeUsers". Times are wall-clock values
// in the canteen's local timezone and refer to the current day.
package occupancy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// Sample is one parsed feed line before persistence.
type Sample struct {
	Timestamp     time.Time
	MovingAverage float64
	ActiveUsers   int
}

// FeedFetcher retrieves the raw occupancy feed body.
type FeedFetcher interface {
	FetchFeed(ctx context.Context) (string, error)
}

// HTTPFeedFetcher fetches the feed over HTTP.
type HTTPFeedFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFeedFetcher returns a fetcher with a dedicated client and timeout.
func NewHTTPFeedFetcher(url string, timeout time.Duration) *HTTPFeedFetcher {
	return &HTTPFeedFetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// FetchFeed downloads the feed document. Non-2xx responses are errors.
func (f *HTTPFeedFetcher) FetchFeed(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", fmt.Errorf("occupancy: build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("occupancy: fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("occupancy: unexpected status %d from feed", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("occupancy: read feed body: %w", err)
	}
	return string(body), nil
}

// ParseFeed parses the feed body into samples anchored to the current day
// in loc. Malformed lines are skipped; a feed with no valid lines yields an
// empty slice, not an error.
func ParseFeed(body string, now time.Time, loc *time.Location) []Sample {
	day := now.In(loc)
	var out []Sample
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sample, err := parseLine(line, day, loc)
		if err != nil {
			continue
		}
		out = append(out, sample)
	}
	return out
}

func parseLine(line string, day time.Time, loc *time.Location) (Sample, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 3 {
		return Sample{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	clock := strings.Split(strings.TrimSpace(parts[0]), ":")
	if len(clock) != 2 {
		return Sample{}, fmt.Errorf("malformed clock value %q", parts[0])
	}
	hour, err := strconv.Atoi(clock[0])
	if err != nil || hour < 0 || hour > 23 {
		return Sample{}, fmt.Errorf("malformed hour %q", clock[0])
	}
	minute, err := strconv.Atoi(clock[1])
	if err != nil || minute < 0 || minute > 59 {
		return Sample{}, fmt.Errorf("malformed minute %q", clock[1])
	}
	avg, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Sample{}, fmt.Errorf("malformed moving average %q", parts[1])
	}
	active, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Sample{}, fmt.Errorf("malformed active users %q", parts[2])
	}
	ts := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return Sample{Timestamp: ts, MovingAverage: avg, ActiveUsers: active}, nil
}

// toModels converts parsed samples to storage rows.
func toModels(samples []Sample) []domain.OccupancySample {
	rows := make([]domain.OccupancySample, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, domain.OccupancySample{
			ExternalTimestamp: s.Timestamp.UTC(),
			ActiveUsers:       s.ActiveUsers,
			MovingAverage21:   s.MovingAverage,
		})
	}
	return rows
}
