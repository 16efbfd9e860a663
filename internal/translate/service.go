package translate

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/pulsetrack/ingest-api/internal/metrics"
)

// Translator is the external localization collaborator.
type Translator interface {
	Translate(ctx context.Context, content any, sourceLocale, targetLocale string) (any, error)
}

// Service is the time-boxed memoization wrapper around the translator.
type Service struct {
	translator Translator
	cache      *Cache
}

func NewService(translator Translator, cache *Cache) *Service {
	return &Service{translator: translator, cache: cache}
}

// Translate returns the cached result for (content, sourceLocale,
// targetLocale) when a fresh entry exists, otherwise calls the translator and
// caches the result. Upstream errors are returned as-is and never cached.
func (s *Service) Translate(ctx context.Context, content any, sourceLocale, targetLocale string) (any, error) {
	key := cacheKey(content, sourceLocale, targetLocale)
	if v, ok := s.cache.Get(key); ok {
		metrics.TranslationCacheHits.Inc()
		return v, nil
	}
	metrics.TranslationCacheMisses.Inc()

	result, err := s.translator.Translate(ctx, content, sourceLocale, targetLocale)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, result)
	return result, nil
}

// cacheKey is a stable serialization of the input plus both locale codes.
func cacheKey(content any, sourceLocale, targetLocale string) string {
	b, _ := json.Marshal(content)
	return string(b) + "|" + sourceLocale + "|" + targetLocale
}
