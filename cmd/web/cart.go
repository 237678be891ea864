package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	mw "github.com/reachfood2026-cmyk/reachfoodshop/internal/middleware"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
)

// cartHandler renders the drawer fragment.
func (a *app) cartHandler(w http.ResponseWriter, r *http.Request) {
	a.views.renderTemplate(w, r, http.StatusOK, "cart_drawer", a.pageData(r, ""))
}

// productAddHandler adds the quantity chosen on the product page, bounded to the selector range.
func (a *app) productAddHandler(w http.ResponseWriter, r *http.Request) {
	prod, ok := a.productParam(r)
	if !ok {
		a.cartError(w, r, http.StatusNotFound, "cart.unknownProduct")
		return
	}
	if !prod.InStock {
		a.cartError(w, r, http.StatusConflict, "products.outOfStock")
		return
	}
	n := 1
	if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			a.cartError(w, r, http.StatusBadRequest, "cart.invalidQuantity")
			return
		}
		n = parsed
	}
	n = cart.ClampSelection(n)

	store := cart.FromContext(r.Context())
	for i := 0; i < n; i++ {
		store.AddToCart(prod)
	}
	observability.FromContext(r.Context()).Debug("cart add",
		zap.Int("product_id", prod.ID), zap.Int("quantity", n), zap.Int("count", store.Count()))
	a.cartUpdated(w, r)
}

// cartAddHandler adds one unit of product_id.
func (a *app) cartAddHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("product_id")))
	if err != nil {
		a.cartError(w, r, http.StatusBadRequest, "cart.unknownProduct")
		return
	}
	prod, ok := a.catalog.GetByID(id)
	if !ok {
		a.cartError(w, r, http.StatusNotFound, "cart.unknownProduct")
		return
	}
	if !prod.InStock {
		a.cartError(w, r, http.StatusConflict, "products.outOfStock")
		return
	}
	cart.FromContext(r.Context()).AddToCart(prod)
	a.cartUpdated(w, r)
}

// cartQuantityHandler sets a line's quantity. Zero or less removes the line; unknown ids are
// ignored.
func (a *app) cartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		a.cartError(w, r, http.StatusBadRequest, "cart.unknownProduct")
		return
	}
	store := cart.FromContext(r.Context())

	var n int
	switch raw := strings.TrimSpace(r.PostFormValue("quantity")); raw {
	case "inc", "dec":
		line, found := store.Line(id)
		if !found {
			a.cartUpdated(w, r)
			return
		}
		n = line.Quantity + 1
		if raw == "dec" {
			n = line.Quantity - 1
		}
	default:
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			a.cartError(w, r, http.StatusBadRequest, "cart.invalidQuantity")
			return
		}
		n = parsed
	}
	store.UpdateQuantity(id, n)
	a.cartUpdated(w, r)
}

func (a *app) cartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		a.cartError(w, r, http.StatusBadRequest, "cart.unknownProduct")
		return
	}
	cart.FromContext(r.Context()).RemoveFromCart(id)
	a.cartUpdated(w, r)
}

// cartVisibilityHandler wraps one of the drawer transitions.
func (a *app) cartVisibilityHandler(transition func(*cart.Store)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transition(cart.FromContext(r.Context()))
		a.cartUpdated(w, r)
	}
}

// cartCurrencyHandler switches the display currency. Every price on the page changes, so htmx
// clients reload.
func (a *app) cartCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	err := cart.FromContext(r.Context()).SetCurrency(cart.Currency(r.PostFormValue("currency")))
	if err != nil {
		if errors.Is(err, cart.ErrUnsupportedCurrency) {
			a.cartError(w, r, http.StatusBadRequest, "cart.invalidCurrency")
			return
		}
		a.views.fail(w, r, "currency error", err)
		return
	}
	a.refresh(w, r)
}

func (a *app) languageHandler(w http.ResponseWriter, r *http.Request) {
	if err := i18n.FromContext(r.Context()).SetLanguage(i18n.Language(r.PostFormValue("lang"))); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.refresh(w, r)
}

func (a *app) languageToggleHandler(w http.ResponseWriter, r *http.Request) {
	i18n.FromContext(r.Context()).ToggleLanguage()
	a.refresh(w, r)
}

// cartUpdated answers htmx with the drawer and an out-of-band badge, and plain posts with a
// redirect back.
func (a *app) cartUpdated(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		a.views.renderTemplate(w, r, http.StatusOK, "cart_update", a.pageData(r, ""))
		return
	}
	mw.Redirect(w, r, backTo(r))
}

// refresh reloads the whole page for htmx clients.
func (a *app) refresh(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	mw.Redirect(w, r, backTo(r))
}

func (a *app) cartError(w http.ResponseWriter, r *http.Request, status int, key string) {
	mw.WriteLocalizedError(w, r, status, key)
}

func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
