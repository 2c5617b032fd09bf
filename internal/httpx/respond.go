package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps service errors to the response taxonomy: validation and
// not-found are client errors with their reason, duplicate/rate-limit get
// their own codes, anything else is a generic 500 with detail only outside
// production.
func respondError(w http.ResponseWriter, err error, production bool) {
	var verr *apperr.Validation
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Reason})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrDuplicate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrTooMany):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		body := map[string]string{"error": "internal server error"}
		if !production {
			body["detail"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
