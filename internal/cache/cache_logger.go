package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateTenantCache drops a tenant's cached record and every platform
// aggregate derived from tenants.
func InvalidateTenantCache(ctx context.Context, cm *CacheManager, tenantID string) {
	SafeDelete(ctx, cm.Tenant, "id:"+tenantID)
	SafeInvalidatePattern(ctx, cm.Stats, "tenants:*")
}
