// Package lrclib fetches lyrics from lrclib.net for tracks the phone has no
// lyrics for.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/lyrics"
)

// ErrNotFound is returned when lrclib has no entry for the track.
var ErrNotFound = errors.New("lyrics not found")

const (
	DefaultBaseURL = "https://lrclib.net/api"
	userAgent      = "mediadash/1.0 (https://github.com/llehouerou/mediadash)"
)

// Client is an lrclib.net API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a client against baseURL, or DefaultBaseURL when empty.
func New(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.Named("lrclib"),
	}
}

// Result is one lrclib entry.
type Result struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Get fetches the entry matching artist and title. A non-zero duration
// narrows the match.
func (c *Client) Get(ctx context.Context, artist, title string, duration time.Duration) (*Result, error) {
	params := url.Values{}
	params.Set("artist_name", artist)
	params.Set("track_name", title)
	if duration > 0 {
		params.Set("duration", fmt.Sprintf("%.0f", duration.Seconds()))
	}

	var result Result
	if err := c.get(ctx, "/get", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns entries matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []Result
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("response", zap.String("path", path), zap.Int("status", resp.StatusCode))
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Lyrics converts the entry, preferring synced lyrics. Instrumental tracks
// and empty entries yield ErrNotFound.
func (r *Result) Lyrics() (*lyrics.Lyrics, error) {
	text := r.SyncedLyrics
	if text == "" {
		text = r.PlainLyrics
	}
	if r.Instrumental || strings.TrimSpace(text) == "" {
		return nil, ErrNotFound
	}

	l, err := lyrics.ParseLRC(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	l.Title = r.TrackName
	l.Artist = r.ArtistName
	l.Album = r.AlbumName
	return l, nil
}
