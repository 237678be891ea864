package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
)

// Problem is the body returned to htmx clients when a storefront action is rejected.
// The client script shows Error as a toast; Key names the failure for scripts and tests.
type Problem struct {
	Status int    `json:"status"`
	Key    string `json:"key,omitempty"`
	Error  string `json:"error"`
}

// WriteProblem answers htmx requests with p as JSON and everything else with plain text.
// The response never swaps fragment content.
func WriteProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusBadRequest
	}
	observability.FromContext(r.Context()).Debug("request rejected",
		zap.Int("status", p.Status),
		zap.String("key", p.Key),
		zap.String("path", r.URL.Path),
	)
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(p.Status)
		_ = json.NewEncoder(w).Encode(p)
		return
	}
	http.Error(w, p.Error, p.Status)
}

// WriteError rejects the request with an already rendered message.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	WriteProblem(w, r, Problem{Status: code, Error: msg})
}

// WriteLocalizedError rejects the request with the translation of key in the visitor's
// language. Without a locale in context the key itself is sent.
func WriteLocalizedError(w http.ResponseWriter, r *http.Request, code int, key string) {
	msg := key
	if s, ok := i18n.StoreFrom(r.Context()); ok {
		msg = s.T(key)
	}
	WriteProblem(w, r, Problem{Status: code, Key: key, Error: msg})
}
