package main

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/checkout"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/format"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/handlers"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	mw "github.com/reachfood2026-cmyk/reachfoodshop/internal/middleware"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/newsletter"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
)

// newsletterHandler runs the simulated subscription for the visitor's session. htmx clients
// get the footer form back; plain posts are redirected.
func (a *app) newsletterHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	key := mw.GetSession(r).ID
	logger := observability.FromContext(r.Context())

	vm := a.pageData(r, "")
	vm.Newsletter = handlers.NewsletterView{Email: email}

	_, err := a.newsletter.Submit(r.Context(), key, email)
	status := http.StatusOK
	switch {
	case err == nil:
		logger.Info("newsletter subscribed")
		vm.Newsletter = handlers.NewsletterView{Success: true}
	case errors.Is(err, newsletter.ErrInvalidEmail):
		status = http.StatusUnprocessableEntity
		vm.Newsletter.Error = "newsletter.invalidEmail"
	case errors.Is(err, newsletter.ErrInFlight):
		status = http.StatusConflict
		vm.Newsletter.Pending = true
		vm.Newsletter.Error = "newsletter.pending"
	case r.Context().Err() != nil:
		logger.Debug("newsletter aborted", zap.Error(err))
		return
	default:
		a.views.fail(w, r, "newsletter error", err)
		return
	}

	if mw.IsHTMX(r.Context()) {
		a.views.renderTemplate(w, r, status, "newsletter_form", vm)
		return
	}
	if status != http.StatusOK {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		mw.WriteError(w, r, status, a.bundle.T(i18n.Language(vm.Lang), vm.Newsletter.Error))
		return
	}
	mw.Redirect(w, r, backTo(r))
}

// checkoutHandler places a simulated order for the current cart and empties it on success.
func (a *app) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	store := cart.FromContext(r.Context())
	logger := observability.FromContext(r.Context())

	conf, err := a.checkout.Place(r.Context(), store.Snapshot())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			vm := a.pageData(r, "checkout.title")
			vm.Checkout = &handlers.CheckoutView{Error: "checkout.emptyCart"}
			a.renderCheckout(w, r, http.StatusBadRequest, vm)
		case r.Context().Err() != nil:
			logger.Debug("checkout aborted", zap.Error(err))
		default:
			a.views.fail(w, r, "checkout error", err)
		}
		return
	}

	store.Clear()
	store.CloseCart()
	logger.Info("order placed",
		zap.String("order", conf.OrderNumber),
		zap.Int("items", conf.Items),
		zap.String("total", conf.Total.StringFixed(2)),
		zap.String("currency", string(conf.Currency)))

	vm := a.pageData(r, "checkout.title")
	vm.Checkout = &handlers.CheckoutView{
		OrderNumber: conf.OrderNumber,
		Items:       conf.Items,
		Total:       format.Price(conf.Total, conf.Currency.Symbol(), vm.IsRTL),
		PlacedOn:    format.Date(conf.PlacedAt, vm.Lang),
	}
	vm.SEO.Robots = "noindex"
	a.renderCheckout(w, r, http.StatusOK, vm)
}

func (a *app) renderCheckout(w http.ResponseWriter, r *http.Request, status int, vm handlers.PageData) {
	if mw.IsHTMX(r.Context()) {
		a.views.renderTemplate(w, r, status, "checkout_result", vm)
		return
	}
	a.views.renderPage(w, r, status, "checkout", vm)
}
