// Package source opens the daily temperature CSV from disk or over HTTP.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

// New returns an HTTP source for http(s) URLs and a file source otherwise.
func New(location string, timeout time.Duration, logger *slog.Logger) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTP(location, timeout, logger)
	}
	return NewFile(location)
}

// Source is implemented by File and HTTP.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// File reads a CSV from the local filesystem.
type File struct {
	path string
}

// NewFile creates a file source.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return f.path }

// Open opens the file. Any failure wraps domain.ErrSourceUnavailable.
func (f *File) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return fh, nil
}

// HTTP fetches a CSV from a URL.
type HTTP struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTP creates an HTTP source whose requests time out after timeout.
func NewHTTP(url string, timeout time.Duration, logger *slog.Logger) *HTTP {
	return &HTTP{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (h *HTTP) Name() string { return h.url }

// Open issues a GET and returns the response body. Transport errors and
// non-200 responses wrap domain.ErrSourceUnavailable.
func (h *HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrSourceUnavailable, h.url, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: fetch %s: status %d: %s", domain.ErrSourceUnavailable, h.url, resp.StatusCode, body)
	}

	h.logger.Debug("source fetched", "url", h.url, "duration", time.Since(start))
	return resp.Body, nil
}
