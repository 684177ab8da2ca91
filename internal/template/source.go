// Package template fetches the combo workbook template from HTTP or object storage.
package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gstr1/internal/domain"
	"gstr1/internal/port"
)

// maxTemplateBytes bounds the template download.
const maxTemplateBytes = 32 << 20

// HTTPSource downloads the template over HTTP(S).
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource with the given request timeout.
func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the template. Any transport error or non-200 status yields ErrTemplateUnavailable.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrTemplateUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTemplateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrTemplateUnavailable, resp.StatusCode, s.url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrTemplateUnavailable, err)
	}
	if len(data) > maxTemplateBytes {
		return nil, fmt.Errorf("%w: template larger than %d bytes", domain.ErrTemplateUnavailable, maxTemplateBytes)
	}
	return data, nil
}

// ObjectSource reads the template from object storage.
type ObjectSource struct {
	storage port.ObjectStorage
	bucket  string
	key     string
}

// NewObjectSource creates an ObjectSource for bucket/key.
func NewObjectSource(storage port.ObjectStorage, bucket, key string) *ObjectSource {
	return &ObjectSource{storage: storage, bucket: bucket, key: key}
}

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.storage.Download(ctx, s.bucket, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", domain.ErrTemplateUnavailable, s.bucket, s.key, err)
	}
	return data, nil
}

// NewSource picks a source from the URL scheme. s3:// URLs need a storage client.
func NewSource(rawURL string, timeout time.Duration, storage port.ObjectStorage) (port.TemplateSource, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parsing template url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPSource(u.String(), timeout), nil
	case "s3":
		if storage == nil {
			return nil, fmt.Errorf("template url %s requires object storage to be enabled", rawURL)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("template url %s must be s3://bucket/key", rawURL)
		}
		return NewObjectSource(storage, u.Host, key), nil
	default:
		return nil, fmt.Errorf("unsupported template url scheme %q", u.Scheme)
	}
}
