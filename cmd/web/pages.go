package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cms"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/handlers"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/nav"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/seo"
)

const relatedLimit = 4

func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	vm := a.pageData(r, "")
	p := a.presenter(r)
	vm.Home = &handlers.HomeView{
		Featured:   p.Cards(a.catalog.GetFeatured()),
		Categories: p.Categories(catalog.CategoryAll),
		Features:   handlers.Features,
	}

	lang := p.Locale.Language()
	brand := a.bundle.T(lang, "brand.name")
	site := siteURL(r)
	vm.SEO.JSONLD = append(vm.SEO.JSONLD,
		seo.JSON(seo.Organization(brand, site, "")),
		seo.JSON(seo.WebSite(brand, site, site+"/shop?q=")),
	)
	a.views.renderPage(w, r, http.StatusOK, "home", vm)
}

func (a *app) shopHandler(w http.ResponseWriter, r *http.Request) {
	vm := a.pageData(r, "shop.title")
	p := a.presenter(r)
	lang := string(p.Locale.Language())

	category := a.catalog.ParseCategory(r.URL.Query().Get("category"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	products := a.catalog.Search(query, lang)
	if category != catalog.CategoryAll {
		filtered := products[:0:0]
		for _, prod := range products {
			if prod.Category == category {
				filtered = append(filtered, prod)
			}
		}
		products = filtered
	}

	vm.Shop = &handlers.ShopView{
		Category:   string(category),
		Query:      query,
		Categories: p.Categories(category),
		Products:   p.Cards(products),
	}
	if query != "" {
		vm.SEO.Robots = "noindex, follow"
	}
	a.views.renderPage(w, r, http.StatusOK, "shop", vm)
}

func (a *app) productHandler(w http.ResponseWriter, r *http.Request) {
	prod, ok := a.productParam(r)
	if !ok {
		a.renderNotFound(w, r, "products.notFound")
		return
	}
	p := a.presenter(r)
	card := p.Card(prod)

	vm := a.pageData(r, "")
	vm.Title = card.Name + " | " + a.bundle.T(p.Locale.Language(), "brand.name")
	vm.Breadcrumbs = nav.Breadcrumbs(r.URL.Path, card.Name)
	vm.Product = &handlers.ProductView{
		Card:        card,
		MaxQuantity: len(handlers.Quantities()),
		Quantities:  handlers.Quantities(),
		Related:     p.Cards(related(a.catalog, prod)),
	}

	vm.SEO.Title = vm.Title
	vm.SEO.Description = card.Description
	vm.SEO.OG.Title = vm.Title
	vm.SEO.OG.Description = card.Description
	vm.SEO.OG.Type = "product"
	site := siteURL(r)
	if card.Image != "" {
		vm.SEO.OG.Image = site + card.Image
	}
	vm.SEO.JSONLD = append(vm.SEO.JSONLD,
		seo.JSON(seo.Product(card.Name, card.Description, vm.SEO.Canonical, vm.SEO.OG.Image, strconv.Itoa(prod.ID), seo.Offer{
			Price:    prod.Price.StringFixed(2),
			Currency: "USD",
			InStock:  prod.InStock,
		})),
		seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
			{Name: a.bundle.T(p.Locale.Language(), "nav.shop"), Item: site + "/shop"},
			{Name: card.Name, Item: vm.SEO.Canonical},
		})),
	)
	a.views.renderPage(w, r, http.StatusOK, "product", vm)
}

func (a *app) faqHandler(w http.ResponseWriter, r *http.Request) {
	vm := a.pageData(r, "faq.title")
	vm.FAQ = handlers.FAQ
	vm.SEO.Description = a.bundle.T(a.presenter(r).Locale.Language(), "faq.subtitle")
	a.views.renderPage(w, r, http.StatusOK, "faq", vm)
}

func (a *app) contentHandler(w http.ResponseWriter, r *http.Request) {
	lang := a.presenter(r).Locale.Language()
	page, err := a.pages.Page(chi.URLParam(r, "slug"), string(lang))
	if err != nil {
		if !errors.Is(err, cms.ErrNotFound) {
			a.views.fail(w, r, "content error", err)
			return
		}
		a.renderNotFound(w, r, "notFound.title")
		return
	}

	vm := a.pageData(r, "")
	vm.Title = page.Title + " | " + a.bundle.T(lang, "brand.name")
	vm.Breadcrumbs = nav.Breadcrumbs(r.URL.Path, page.Title)
	vm.Content = &page
	vm.SEO.Title = vm.Title
	vm.SEO.OG.Title = vm.Title
	vm.SEO.OG.Type = "article"
	if page.SEO.Title != "" {
		vm.SEO.Title = page.SEO.Title
		vm.SEO.OG.Title = page.SEO.Title
	}
	if d := firstNonEmpty(page.SEO.Description, page.Summary); d != "" {
		vm.SEO.Description = d
		vm.SEO.OG.Description = d
	}
	if page.SEO.OGImage != "" {
		vm.SEO.OG.Image = siteURL(r) + page.SEO.OGImage
	}
	// the fallback copy is served under this language's URL; only index the real translation
	if page.Lang != string(lang) {
		vm.SEO.Robots = "noindex, follow"
	}
	a.views.renderPage(w, r, http.StatusOK, "content", vm)
}

func (a *app) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	a.renderNotFound(w, r, "notFound.title")
}

func (a *app) renderNotFound(w http.ResponseWriter, r *http.Request, titleKey string) {
	vm := a.pageData(r, titleKey)
	vm.NotFound = a.bundle.T(a.presenter(r).Locale.Language(), titleKey)
	vm.SEO.Robots = "noindex"
	a.views.renderPage(w, r, http.StatusNotFound, "not_found", vm)
}

// productParam resolves the {id} route parameter against the catalog.
func (a *app) productParam(r *http.Request) (catalog.Product, bool) {
	id, ok := parseID(r)
	if !ok {
		return catalog.Product{}, false
	}
	return a.catalog.GetByID(id)
}

// related picks other meals from the same category, then featured meals.
func related(c *catalog.Catalog, prod catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, relatedLimit)
	seen := map[int]bool{prod.ID: true}
	add := func(list []catalog.Product) {
		for _, p := range list {
			if len(out) == relatedLimit {
				return
			}
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	add(c.GetByCategory(prod.Category))
	add(c.GetFeatured())
	return out
}

func siteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
