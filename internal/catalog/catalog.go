package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Category groups meals on the shop page.
type Category string

const (
	CategoryAll           Category = "all"
	CategoryAsian         Category = "asian"
	CategoryIndian        Category = "indian"
	CategoryMediterranean Category = "mediterranean"
	CategoryItalian       Category = "italian"
	CategoryMexican       Category = "mexican"
	CategoryAmerican      Category = "american"
	CategoryDessert       Category = "dessert"
)

// CategoryInfo describes a selectable category filter.
type CategoryInfo struct {
	ID       Category
	Name     string // fallback label
	LabelKey string // i18n key
}

// Product is an immutable catalog record. Prices are stored in the base unit (USD).
type Product struct {
	ID            int
	Name          string
	Description   string
	Image         string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      Category
	InStock       bool
	Featured      bool
}

// Discounted reports whether the product carries a struck-through original price.
func (p Product) Discounted() bool {
	return p.OriginalPrice != nil
}

// SavingsPercent returns the rounded discount percentage, or 0 when not discounted.
func (p Product) SavingsPercent() int64 {
	if p.OriginalPrice == nil || p.OriginalPrice.IsZero() {
		return 0
	}
	ratio := p.Price.Div(*p.OriginalPrice)
	return decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Text holds locale specific display fields for a product.
type Text struct {
	Name        string
	Description string
}

// Translations maps language -> product id -> localized text.
type Translations map[string]map[int]Text

// Catalog is the read-only product set. It is safe for concurrent use.
type Catalog struct {
	products     []Product
	index        map[int]int
	categories   []CategoryInfo
	translations Translations
}

// ErrInvalidProduct is returned by New when a record breaks a catalog invariant.
var ErrInvalidProduct = errors.New("catalog: invalid product")

// New builds a catalog after validating every record.
func New(products []Product, categories []CategoryInfo, translations Translations) (*Catalog, error) {
	c := &Catalog{
		products:     append([]Product(nil), products...),
		index:        make(map[int]int, len(products)),
		categories:   append([]CategoryInfo(nil), categories...),
		translations: translations,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i, p := range c.products {
		c.index[p.ID] = i
	}
	return c, nil
}

// Load returns the compiled-in catalog.
func Load() (*Catalog, error) {
	return New(staticProducts, staticCategories, staticTranslations)
}

// Validate checks id uniqueness, categories and discount invariants.
func (c *Catalog) Validate() error {
	known := map[Category]struct{}{}
	for _, cat := range c.categories {
		known[cat.ID] = struct{}{}
	}
	seen := map[int]struct{}{}
	for _, p := range c.products {
		if p.ID <= 0 {
			return fmt.Errorf("%w: id %d must be positive", ErrInvalidProduct, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Category == CategoryAll {
			return fmt.Errorf("%w: product %d uses reserved category", ErrInvalidProduct, p.ID)
		}
		if _, ok := known[p.Category]; !ok {
			return fmt.Errorf("%w: product %d has unknown category %q", ErrInvalidProduct, p.ID, p.Category)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %d has negative price", ErrInvalidProduct, p.ID)
		}
		if p.OriginalPrice != nil && !p.OriginalPrice.GreaterThan(p.Price) {
			return fmt.Errorf("%w: product %d original price must exceed price", ErrInvalidProduct, p.ID)
		}
	}
	return nil
}

// GetAll returns every product in catalog order.
func (c *Catalog) GetAll() []Product {
	return append([]Product(nil), c.products...)
}

// GetByID looks up a product. The boolean is false for unknown ids.
func (c *Catalog) GetByID(id int) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// GetByCategory filters by category; CategoryAll returns the full set.
func (c *Catalog) GetByCategory(cat Category) []Product {
	if cat == CategoryAll || cat == "" {
		return c.GetAll()
	}
	return c.filter(func(p Product) bool { return p.Category == cat })
}

// GetFeatured returns products flagged for the home page.
func (c *Catalog) GetFeatured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

// Categories lists category filters, "all" first.
func (c *Catalog) Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), c.categories...)
}

// ParseCategory maps a query value to a known category, defaulting to CategoryAll.
func (c *Catalog) ParseCategory(raw string) Category {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, cat := range c.categories {
		if string(cat.ID) == raw {
			return cat.ID
		}
	}
	return CategoryAll
}

// Localize resolves display text for lang, falling back to the product's own fields.
func (c *Catalog) Localize(p Product, lang string) Text {
	out := Text{Name: p.Name, Description: p.Description}
	if byID, ok := c.translations[lang]; ok {
		if t, ok := byID[p.ID]; ok {
			if t.Name != "" {
				out.Name = t.Name
			}
			if t.Description != "" {
				out.Description = t.Description
			}
		}
	}
	return out
}

// Search matches query against localized and fallback names, case-insensitively.
func (c *Catalog) Search(query, lang string) []Product {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return c.GetAll()
	}
	return c.filter(func(p Product) bool {
		if strings.Contains(fold.String(p.Name), q) {
			return true
		}
		return strings.Contains(fold.String(c.Localize(p, lang).Name), q)
	})
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
