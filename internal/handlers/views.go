package handlers

import (
	"strconv"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
)

// ProductCard is a product localized and priced for one visitor.
type ProductCard struct {
	ID            int
	Href          string
	Name          string
	Description   string
	Image         string
	Category      string
	Price         string
	OriginalPrice string
	Savings       int64
	InStock       bool
	Featured      bool
	InCart        int
}

// CartView is the drawer state.
type CartView struct {
	Open     bool
	Count    int
	Empty    bool
	Items    []CartLine
	Subtotal string
	Currency string
}

// CartLine is one drawer row.
type CartLine struct {
	ID        int
	Name      string
	Image     string
	Quantity  int
	UnitPrice string
	Total     string
}

// CurrencyOption is an entry of the currency switcher.
type CurrencyOption struct {
	Code   string
	Symbol string
	Active bool
}

// Presenter turns domain state into view models for one request.
type Presenter struct {
	Catalog *catalog.Catalog
	Cart    *cart.Store
	Locale  *i18n.Store
}

func (p Presenter) lang() string { return string(p.Locale.Language()) }

// Card builds a product card.
func (p Presenter) Card(prod catalog.Product) ProductCard {
	text := p.Catalog.Localize(prod, p.lang())
	rtl := p.Locale.IsRTL()
	card := ProductCard{
		ID:          prod.ID,
		Href:        "/products/" + strconv.Itoa(prod.ID),
		Name:        text.Name,
		Description: text.Description,
		Image:       prod.Image,
		Category:    string(prod.Category),
		Price:       p.Cart.FormatPriceDir(prod.Price, rtl),
		InStock:     prod.InStock,
		Featured:    prod.Featured,
	}
	if prod.Discounted() {
		card.OriginalPrice = p.Cart.FormatPriceDir(*prod.OriginalPrice, rtl)
		card.Savings = prod.SavingsPercent()
	}
	if line, ok := p.Cart.Line(prod.ID); ok {
		card.InCart = line.Quantity
	}
	return card
}

// Cards builds cards for a product list.
func (p Presenter) Cards(products []catalog.Product) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, prod := range products {
		out = append(out, p.Card(prod))
	}
	return out
}

// CartView snapshots the drawer.
func (p Presenter) CartView() CartView {
	snap := p.Cart.Snapshot()
	rtl := p.Locale.IsRTL()
	v := CartView{
		Open:     snap.Open,
		Count:    snap.Count,
		Empty:    snap.Empty(),
		Subtotal: p.Cart.FormatPriceDir(snap.Subtotal, rtl),
		Currency: string(snap.Currency),
		Items:    make([]CartLine, 0, len(snap.Items)),
	}
	for _, it := range snap.Items {
		v.Items = append(v.Items, CartLine{
			ID:        it.Product.ID,
			Name:      p.Catalog.Localize(it.Product, p.lang()).Name,
			Image:     it.Product.Image,
			Quantity:  it.Quantity,
			UnitPrice: p.Cart.FormatPriceDir(it.Product.Price, rtl),
			Total:     p.Cart.FormatPriceDir(it.Total, rtl),
		})
	}
	return v
}

// Currencies lists the switcher options.
func (p Presenter) Currencies() []CurrencyOption {
	active := p.Cart.Currency()
	out := make([]CurrencyOption, 0, len(cart.Currencies()))
	for _, c := range cart.Currencies() {
		out = append(out, CurrencyOption{Code: string(c), Symbol: c.Symbol(), Active: c == active})
	}
	return out
}

// Categories lists the filter pills with the active one marked.
func (p Presenter) Categories(active catalog.Category) []CategoryOption {
	cats := p.Catalog.Categories()
	out := make([]CategoryOption, 0, len(cats))
	for _, c := range cats {
		href := "/shop"
		if c.ID != catalog.CategoryAll {
			href += "?category=" + string(c.ID)
		}
		out = append(out, CategoryOption{
			ID:       string(c.ID),
			LabelKey: c.LabelKey,
			Href:     href,
			Active:   c.ID == active,
		})
	}
	return out
}

// Quantities enumerates the product-page selector values.
func Quantities() []int {
	out := make([]int, 0, cart.MaxSelectableQuantity)
	for i := 1; i <= cart.MaxSelectableQuantity; i++ {
		out = append(out, i)
	}
	return out
}
