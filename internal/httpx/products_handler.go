package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/catalog"
	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/stats"
)

type ProductsHandler struct {
	Catalog    *catalog.Service
	Producer   *kafkax.Producer
	UploadDir  string
	Service    string
	Production bool
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/api/public/products", h.list)
	r.Get("/api/public/products/{id}", h.get)
	r.Post("/api/admin/products", h.create)
	r.Put("/api/admin/products/{id}", h.update)
	r.Delete("/api/admin/products/{id}", h.delete)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	photos, err := stageUploads(r, h.UploadDir, "photos", maxUploadFiles)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		discardStaged(photos)
		respondError(w, err, h.Production)
		return
	}
	in := catalog.Input{
		Name:        r.FormValue("name"),
		Price:       price,
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Colors:      formList(r, "colors"),
		Sizes:       formList(r, "sizes"),
	}

	p, err := h.Catalog.Create(ctx, in, photos)
	if err != nil {
		discardStaged(photos)
		respondError(w, err, h.Production)
		return
	}
	publishRecompute(h.Producer, h.Service, stats.TriggerProductCreated, p.ID.Hex(), r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	photos, err := stageUploads(r, h.UploadDir, "photos", maxUploadFiles)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}

	var in catalog.UpdateInput
	if v, ok := formGet(r, "name"); ok {
		in.Name = &v
	}
	if v, ok := formGet(r, "price"); ok {
		price, err := parsePrice(v)
		if err != nil {
			discardStaged(photos)
			respondError(w, err, h.Production)
			return
		}
		in.Price = &price
	}
	if v, ok := formGet(r, "category"); ok {
		in.Category = &v
	}
	if v, ok := formGet(r, "description"); ok {
		in.Description = &v
	}
	if _, ok := formGet(r, "colors"); ok {
		in.Colors = formList(r, "colors")
	}
	if _, ok := formGet(r, "sizes"); ok {
		in.Sizes = formList(r, "sizes")
	}

	p, err := h.Catalog.Update(ctx, chi.URLParam(r, "id"), in, photos)
	if err != nil {
		discardStaged(photos)
		respondError(w, err, h.Production)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Catalog.Delete(ctx, id); err != nil {
		respondError(w, err, h.Production)
		return
	}
	publishRecompute(h.Producer, h.Service, stats.TriggerProductDeleted, id, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, apperr.Validationf("price is required")
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperr.Validationf("price must be a number")
	}
	return price, nil
}

// formGet reports field presence so updates only touch supplied fields.
func formGet(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// formList accepts either repeated fields or one comma-separated value.
func formList(r *http.Request, key string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	vals := r.MultipartForm.Value[key]
	if len(vals) == 1 && strings.Contains(vals[0], ",") {
		vals = strings.Split(vals[0], ",")
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
