package repository

import (
	"context"

	"auction-marketplace/internal/storage"
	"auction-marketplace/utils"
)

// persist writes one collection snapshot. Writes are best-effort: a failure is
// logged and the in-memory state stays authoritative. Callers hold r.mu.
func (r *MemoryRepo) persist(ctx context.Context, key string, collection any) {
	if r.backend == nil {
		return
	}
	if err := storage.SaveJSON(ctx, r.backend, key, collection); err != nil {
		utils.Warn("repository: snapshot write failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	utils.Debug("repository: snapshot written", map[string]any{"key": key})
}
