package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/orders"
	"github.com/dzcommerce/storefront-api/internal/stats"
)

// OrderStore is the slice of the orders repo the handler needs beyond intake.
type OrderStore interface {
	List(ctx context.Context) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, s orders.Status) (*orders.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	Intake     *orders.Intake
	Store      OrderStore
	Producer   *kafkax.Producer
	Service    string
	Production bool
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/public/orders", h.create)
	r.Get("/api/admin/orders", h.list)
	r.Put("/api/admin/orders/{id}", h.updateStatus)
	r.Delete("/api/admin/orders/{id}", h.delete)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var p orders.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.Intake.Create(ctx, p, clientIP(r), r.UserAgent())
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	publishRecompute(h.Producer, h.Service, stats.TriggerOrderCreated, o.ID.Hex(), r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Store.List(ctx)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status orders.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !body.Status.Valid() {
		respondError(w, apperr.Validationf("invalid status %q", body.Status), h.Production)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	o, err := h.Store.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	publishRecompute(h.Producer, h.Service, stats.TriggerOrderUpdated, id, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(ctx, id); err != nil {
		respondError(w, err, h.Production)
		return
	}
	publishRecompute(h.Producer, h.Service, stats.TriggerOrderDeleted, id, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
