package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/redisx"
)

// Worker consumes recompute events and rebuilds the dashboard off the
// request path. Recompute failures are logged, never retried through the
// consumer: a later mutation publishes a fresh event anyway.
type Worker struct {
	Agg   *Aggregator
	Redis *redis.Client // nil disables dedup and cache priming (tests)
}

func (w *Worker) HandleRecompute(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		log.Printf("stats: bad event payload: %v", err)
		return nil
	}
	if env.EventType != EventRecomputeRequested {
		return nil
	}
	p, err := kafkax.UnwrapPayload[RecomputePayload](env.Payload)
	if err != nil {
		log.Printf("stats: event %s: %v", env.EventID, err)
		return nil
	}

	// dedup by event id
	if w.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "stats", env.EventID)
		if seen, _ := redisx.Exists(ctx, w.Redis, dkey); seen {
			return nil
		}
		_ = w.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	d, err := w.Agg.Recompute(ctx)
	if err != nil {
		log.Printf("stats recompute (trigger=%s entity=%s): %v", p.Trigger, p.EntityID, err)
		return nil
	}
	log.Printf("dashboard recomputed: trigger=%s orders=%d revenue=%.2f", p.Trigger, d.TotalOrders, d.TotalRevenue)

	if w.Redis != nil {
		if b, err := json.Marshal(d); err == nil {
			_ = w.Redis.Set(ctx, redisx.KeyDashboardStats, b, redisx.TTLStatsCache).Err()
		}
	}
	return nil
}
