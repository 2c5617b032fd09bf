package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/hero"
	"github.com/dzcommerce/storefront-api/internal/media"
)

type HeroHandler struct {
	Hero       *hero.Service
	UploadDir  string
	Production bool
}

func (h *HeroHandler) Register(r *chi.Mux) {
	r.Get("/api/public/hero-content", h.listActive)
	r.Get("/api/admin/hero-content", h.list)
	r.Post("/api/admin/hero-content", h.create)
	r.Put("/api/admin/hero-content/{id}", h.update)
	r.Delete("/api/admin/hero-content/{id}", h.delete)
}

func (h *HeroHandler) listActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cs, err := h.Hero.ListActive(ctx)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	if cs == nil {
		cs = []hero.Content{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *HeroHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cs, err := h.Hero.List(ctx)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}
	if cs == nil {
		cs = []hero.Content{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *HeroHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	file, err := h.stageOne(r)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}

	in := hero.Input{
		Title:      r.FormValue("title"),
		Subtitle:   r.FormValue("subtitle"),
		ButtonText: r.FormValue("buttonText"),
		Theme:      r.FormValue("theme"),
		Order:      formInt(r, "order", 0),
		MediaType:  media.Kind(r.FormValue("mediaType")),
		IsActive:   formBool(r, "isActive", true),
	}

	c, err := h.Hero.Create(ctx, in, file)
	if err != nil {
		if file != nil {
			discardStaged([]media.Staged{*file})
		}
		respondError(w, err, h.Production)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *HeroHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	file, err := h.stageOne(r)
	if err != nil {
		respondError(w, err, h.Production)
		return
	}

	var in hero.UpdateInput
	if v, ok := formGet(r, "title"); ok {
		in.Title = &v
	}
	if v, ok := formGet(r, "subtitle"); ok {
		in.Subtitle = &v
	}
	if v, ok := formGet(r, "buttonText"); ok {
		in.ButtonText = &v
	}
	if v, ok := formGet(r, "theme"); ok {
		in.Theme = &v
	}
	if v, ok := formGet(r, "order"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			if file != nil {
				discardStaged([]media.Staged{*file})
			}
			respondError(w, apperr.Validationf("order must be an integer"), h.Production)
			return
		}
		in.Order = &n
	}
	if v, ok := formGet(r, "isActive"); ok {
		b := v == "true" || v == "1"
		in.IsActive = &b
	}
	in.MediaType = media.Kind(r.FormValue("mediaType"))

	c, err := h.Hero.Update(ctx, chi.URLParam(r, "id"), in, file)
	if err != nil {
		if file != nil {
			discardStaged([]media.Staged{*file})
		}
		respondError(w, err, h.Production)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *HeroHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.Hero.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		respondError(w, err, h.Production)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "hero content deleted"})
}

// stageOne stages the single "media" file, or nil when none was sent.
func (h *HeroHandler) stageOne(r *http.Request) (*media.Staged, error) {
	staged, err := stageUploads(r, h.UploadDir, "media", 1)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, nil
	}
	return &staged[0], nil
}

func formInt(r *http.Request, key string, def int) int {
	v := r.FormValue(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func formBool(r *http.Request, key string, def bool) bool {
	v := r.FormValue(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}
