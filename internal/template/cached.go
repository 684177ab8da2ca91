package template

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"gstr1/internal/port"
)

// CachedSource wraps a TemplateSource with a TTL cache. Cache failures fall through to the source.
type CachedSource struct {
	source port.TemplateSource
	cache  port.TemplateCache
	key    string
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewCachedSource caches template bytes under key for ttl.
func NewCachedSource(source port.TemplateSource, cache port.TemplateCache, key string, ttl time.Duration, log logrus.FieldLogger) *CachedSource {
	return &CachedSource{source: source, cache: cache, key: key, ttl: ttl, log: log}
}

func (s *CachedSource) Fetch(ctx context.Context) ([]byte, error) {
	data, ok, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("template cache read failed")
	} else if ok {
		return data, nil
	}

	data, err = s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("template cache write failed")
	}
	return data, nil
}
