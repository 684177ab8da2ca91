package port

import (
	"context"
	"time"
)

// TemplateSource fetches the combo workbook template.
type TemplateSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// TemplateCache stores fetched template bytes for a bounded time.
type TemplateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
