package main

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/checkout"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cms"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/config"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/handlers"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	mw "github.com/reachfood2026-cmyk/reachfoodshop/internal/middleware"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/nav"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/newsletter"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/seo"
)

const assetsMaxAge = 7 * 24 * time.Hour

// app bundles the long-lived collaborators shared by all handlers.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	catalog    *catalog.Catalog
	bundle     *i18n.Bundle
	registry   *cart.Registry
	sessions   *mw.SessionManager
	pages      *cms.Store
	newsletter *newsletter.Service
	checkout   *checkout.Simulator
	views      *renderer
}

// routes builds the router. Middleware order matters: the cart needs the session, and
// CSRF needs the session token.
func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(a.cfg.Server.AssetsDir, assetsMaxAge))
	r.Handle("/assets/*", assets)

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(a.sessions.Middleware)
		r.Use(mw.CSRF(a.cfg.Session.Secure))
		r.Use(mw.Locale(a.bundle, mw.LocaleOptions{
			Negotiate: a.cfg.Locale.NegotiateAcceptLanguage,
			Secure:    a.cfg.Session.Secure,
		}))
		r.Use(mw.Cart(a.registry))

		r.Get("/", a.homeHandler)
		r.Get("/shop", a.shopHandler)
		r.Get("/products/{id}", a.productHandler)
		r.Post("/products/{id}/cart", a.productAddHandler)

		r.Get("/cart", a.cartHandler)
		r.Post("/cart/items", a.cartAddHandler)
		r.Post("/cart/items/{id}/quantity", a.cartQuantityHandler)
		r.Post("/cart/items/{id}/remove", a.cartRemoveHandler)
		r.Post("/cart/toggle", a.cartVisibilityHandler((*cart.Store).ToggleCart))
		r.Post("/cart/open", a.cartVisibilityHandler((*cart.Store).OpenCart))
		r.Post("/cart/close", a.cartVisibilityHandler((*cart.Store).CloseCart))
		r.Post("/cart/currency", a.cartCurrencyHandler)

		r.Post("/language", a.languageHandler)
		r.Post("/language/toggle", a.languageToggleHandler)

		r.Post("/newsletter", a.newsletterHandler)
		r.Post("/checkout", a.checkoutHandler)

		r.Get("/faq", a.faqHandler)
		r.Get("/pages/{slug}", a.contentHandler)

		r.NotFound(a.notFoundHandler)
	})
	return r
}

// pageData fills the layout fields shared by every page.
func (a *app) pageData(r *http.Request, titleKey string) handlers.PageData {
	p := a.presenter(r)
	lang := p.Locale.Language()
	brand := a.bundle.T(lang, "brand.name")
	title := brand
	if titleKey != "" {
		title = a.bundle.T(lang, titleKey) + " | " + brand
	}

	vm := handlers.PageData{
		Title:       title,
		Lang:        string(lang),
		Dir:         lang.Dir(),
		IsRTL:       lang.IsRTL(),
		OtherLang:   string(lang.Other()),
		CSRFToken:   mw.CSRFToken(r),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Pages:       nav.BuildPages(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, ""),
		Search:      strings.TrimSpace(r.URL.Query().Get("q")),
		Cart:        p.CartView(),
		Currencies:  p.Currencies(),
		Newsletter: handlers.NewsletterView{
			Pending: a.newsletter.Pending(mw.GetSession(r).ID),
		},
	}
	vm.Contact = nav.BuildContact(r.URL.Path)

	vm.SEO.Title = title
	vm.SEO.Description = a.bundle.T(lang, "brand.description")
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.OG.Locale = ogLocale(lang)
	vm.SEO.Alternates = buildAlternates(r, a.bundle.Supported())
	return vm
}

func (a *app) presenter(r *http.Request) handlers.Presenter {
	return handlers.Presenter{
		Catalog: a.catalog,
		Cart:    cart.FromContext(r.Context()),
		Locale:  i18n.FromContext(r.Context()),
	}
}

// absoluteURL reconstructs the request URL for canonical links.
func absoluteURL(r *http.Request) string {
	q := r.URL.Query()
	q.Del("hl")
	out := siteURL(r) + r.URL.Path
	if len(q) > 0 {
		out += "?" + q.Encode()
	}
	return out
}

// buildAlternates emits one hreflang link per supported language using the ?hl= switch.
func buildAlternates(r *http.Request, langs []i18n.Language) []seo.Alternate {
	base := absoluteURL(r)
	out := make([]seo.Alternate, 0, len(langs))
	for _, l := range langs {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		q := u.Query()
		q.Set("hl", string(l))
		u.RawQuery = q.Encode()
		out = append(out, seo.Alternate{Href: u.String(), Hreflang: string(l)})
	}
	return out
}

func ogLocale(l i18n.Language) string {
	if l == i18n.Arabic {
		return "ar_SA"
	}
	return "en_US"
}

// backTo returns a same-site path to send the visitor back to after a form post.
func backTo(r *http.Request) string {
	if target := r.PostFormValue("return_to"); isLocalPath(target) {
		return target
	}
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == r.Host) && isLocalPath(u.Path) {
			if u.RawQuery != "" {
				return u.Path + "?" + u.RawQuery
			}
			return u.Path
		}
	}
	return "/"
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}
