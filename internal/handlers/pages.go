package handlers

import (
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cms"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/nav"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/seo"
)

// PageData is the view model for every page rendered with the shared layout.
type PageData struct {
	Title     string
	Lang      string
	Dir       string
	IsRTL     bool
	OtherLang string
	CSRFToken string
	SEO       seo.Meta

	Path        string
	Nav         []nav.RenderedItem
	Pages       []nav.RenderedItem
	Contact     nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Search      string

	Cart       CartView
	Currencies []CurrencyOption
	Newsletter NewsletterView

	// Optional per-page view model payloads
	Home     *HomeView
	Shop     *ShopView
	Product  *ProductView
	FAQ      []FAQSection
	Content  *cms.Page
	Checkout *CheckoutView
	// NotFound is the translated message of the 404 page.
	NotFound string
}

// HomeView backs the landing page.
type HomeView struct {
	Featured   []ProductCard
	Categories []CategoryOption
	Features   []Feature
}

// Feature is one tile of the promise section.
type Feature struct {
	Icon           string
	TitleKey       string
	DescriptionKey string
}

// Features lists the promise tiles in display order.
var Features = []Feature{
	{Icon: "leaf", TitleKey: "features.qualityIngredients", DescriptionKey: "features.qualityIngredientsDesc"},
	{Icon: "clock", TitleKey: "features.readyInMinutes", DescriptionKey: "features.readyInMinutesDesc"},
	{Icon: "truck", TitleKey: "features.fastDelivery", DescriptionKey: "features.fastDeliveryDesc"},
}

// ShopView backs the shop grid.
type ShopView struct {
	Category   string
	Query      string
	Categories []CategoryOption
	Products   []ProductCard
}

// CategoryOption is a category filter pill.
type CategoryOption struct {
	ID       string
	LabelKey string
	Href     string
	Active   bool
}

// ProductView backs the product detail page.
type ProductView struct {
	Card        ProductCard
	MaxQuantity int
	Quantities  []int
	Related     []ProductCard
}

// CheckoutView is shown after a simulated order.
type CheckoutView struct {
	OrderNumber string
	Items       int
	Total       string
	PlacedOn    string
	Error       string
}

// NewsletterView is the footer form state.
type NewsletterView struct {
	Email   string
	Pending bool
	Success bool
	Error   string
}
