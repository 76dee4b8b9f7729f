package cache

import (
	"time"

	"go.uber.org/zap"
)

// CacheManager holds the application caches.
type CacheManager struct {
	// Follow-up suggestions keyed by assistant text and preferences.
	Suggestions *UnifiedCache[[]string]
}

func NewCacheManager(suggestionTTL time.Duration, logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Suggestions: NewUnifiedCache[[]string](suggestionTTL, "suggestions", logger),
	}
}

// GetAllMetrics reports hit, miss and set counts per cache name.
func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		"suggestions": cm.Suggestions.GetMetrics(),
	}
}

// Close stops every cache janitor.
func (cm *CacheManager) Close() {
	cm.Suggestions.Close()
}
