package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/stats"
	"github.com/dzcommerce/storefront-api/internal/wilayas"
)

const version = "1.0.0"

func NewRouter(serviceName string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": serviceName,
			"version": version,
		})
	})
	r.Get("/api/wilayas", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, wilayas.Names())
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":  "route not found",
			"path":   req.URL.Path,
			"method": req.Method,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error":  "method not allowed",
			"path":   req.URL.Path,
			"method": req.Method,
		})
	})
	return r
}

// clientIP strips the port RemoteAddr may still carry after RealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// publishRecompute fires a dashboard recompute event; the stats worker does
// the rescan off the request path. Nil producer means events are disabled
// (tests).
func publishRecompute(p *kafkax.Producer, producer, trigger, entityID, traceID string) {
	if p == nil {
		return
	}
	ev := stats.Envelope{
		EventID:      uuid.NewString(),
		EventType:    stats.EventRecomputeRequested,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		TraceID:      traceID,
		Payload:      kafkax.MustMarshal(stats.RecomputePayload{Trigger: trigger, EntityID: entityID}),
	}
	p.Publish(stats.PartitionKey(), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(stats.EventRecomputeRequested)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
