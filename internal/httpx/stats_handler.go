package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/dzcommerce/storefront-api/internal/redisx"
	"github.com/dzcommerce/storefront-api/internal/stats"
)

type SnapshotGetter interface {
	Get(ctx context.Context) (*stats.Dashboard, error)
}

type StatsHandler struct {
	Snapshots  SnapshotGetter
	Redis      *redis.Client
	Production bool
}

func (h *StatsHandler) Register(r *chi.Mux) {
	r.Get("/api/admin/dashboard/stats", h.get)
}

// get serves the cached snapshot when fresh and falls back to the store,
// re-priming the cache on the way out.
func (h *StatsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyDashboardStats).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	d, err := h.Snapshots.Get(ctx)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	b, err := json.Marshal(d)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, redisx.KeyDashboardStats, b, redisx.TTLStatsCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
