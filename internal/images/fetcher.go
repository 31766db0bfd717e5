// Package images loads image bytes from local paths or remote URLs.
package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// MaxImageSize caps the number of bytes read from any source
const MaxImageSize = 10 * 1024 * 1024

// Fetcher retrieves images to run OCR on
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new image fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsURL reports whether source should be downloaded rather than read from disk
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the bytes of source, which is either a file path or an http(s) URL
func (f *Fetcher) Load(ctx context.Context, source string) ([]byte, error) {
	if IsURL(source) {
		return f.Download(ctx, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()
	return readLimited(file)
}

// Download fetches an image over HTTP
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	slog.Info("Downloading image", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image URL returned an empty body")
	}

	slog.Debug("Downloaded image", "url", url, "bytes", len(data))
	return data, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image too large (max %d bytes)", MaxImageSize)
	}
	return data, nil
}
