package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TaskSource fetches the raw task workbook from its well-known location.
type TaskSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// NewTaskSource picks an HTTP source for http(s) URLs and a file source otherwise.
func NewTaskSource(location string, timeout time.Duration) TaskSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPTaskSource{
			URL:    location,
			Client: &http.Client{Timeout: timeout},
		}
	}
	return &FileTaskSource{Path: location}
}

type HTTPTaskSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPTaskSource) Location() string {
	return s.URL
}

func (s *HTTPTaskSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build task source request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SourceStatusError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}

type FileTaskSource struct {
	Path string
}

func (s *FileTaskSource) Location() string {
	return s.Path
}

func (s *FileTaskSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}
