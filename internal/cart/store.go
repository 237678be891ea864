package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/format"
)

// MaxSelectableQuantity caps the product-detail quantity selector. The store never applies it.
const MaxSelectableQuantity = 10

// ClampSelection bounds a quantity chosen on the product page to [1, MaxSelectableQuantity].
func ClampSelection(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSelectableQuantity {
		return MaxSelectableQuantity
	}
	return n
}

// Resolver looks up catalog products referenced by cart lines.
type Resolver interface {
	GetByID(id int) (catalog.Product, bool)
}

// Line pairs a product id with a quantity. The product itself is owned by the catalog.
type Line struct {
	ProductID int
	Quantity  int
}

// Item is a line resolved against the catalog for display.
type Item struct {
	Product  catalog.Product
	Quantity int
	Total    decimal.Decimal
}

// Snapshot is an immutable view of the cart at one point in time.
type Snapshot struct {
	Items    []Item
	Currency Currency
	Open     bool
	Count    int
	Subtotal decimal.Decimal
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

// Store owns one session's cart: lines in insertion order, display currency and drawer
// visibility. All methods are safe for concurrent use; each call runs to completion before
// the next one starts.
type Store struct {
	mu       sync.Mutex
	products Resolver
	lines    []Line
	currency Currency
	open     bool
}

// NewStore returns an empty, closed cart priced in DefaultCurrency.
func NewStore(products Resolver) *Store {
	return &Store{products: products, currency: DefaultCurrency}
}

// AddToCart increments the product's line by one, appending a new line when absent.
// Products the catalog does not know are ignored.
func (s *Store) AddToCart(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products.GetByID(p.ID); !ok {
		return
	}
	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, Line{ProductID: p.ID, Quantity: 1})
}

// RemoveFromCart drops the line for productID. Unknown ids are ignored.
func (s *Store) RemoveFromCart(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(productID)
}

// UpdateQuantity sets a line's quantity; n <= 0 removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		s.remove(productID)
		return
	}
	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity = n
	}
}

// Clear empties the cart, keeping currency and drawer state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

func (s *Store) ToggleCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

func (s *Store) OpenCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

func (s *Store) CloseCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports drawer visibility.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// SetCurrency switches the display currency. Stored prices are not touched.
func (s *Store) SetCurrency(code Currency) error {
	c, err := ParseCurrency(string(code))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = c
	return nil
}

// Currency returns the active display currency.
func (s *Store) Currency() Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// FormatPrice renders a base-unit amount in the active currency, symbol first.
func (s *Store) FormatPrice(amount decimal.Decimal) string {
	return s.FormatPriceDir(amount, false)
}

// FormatPriceDir renders a base-unit amount in the active currency, placing the symbol
// after the digits when rtl is set.
func (s *Store) FormatPriceDir(amount decimal.Decimal, rtl bool) string {
	c := s.Currency()
	return format.Price(c.Convert(amount), c.Symbol(), rtl)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Line returns the line for productID.
func (s *Store) Line(productID int) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Count is the sum of resolved line quantities, derived on every call.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items())
}

// Subtotal is the sum of quantity × base price, derived on every call.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items() {
		total = total.Add(it.Total)
	}
	return total
}

// Snapshot captures the cart for rendering or checkout.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items()
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	return Snapshot{
		Items:    items,
		Currency: s.currency,
		Open:     s.open,
		Count:    count(items),
		Subtotal: subtotal,
	}
}

// items resolves lines against the catalog; lines whose product vanished are skipped.
func (s *Store) items() []Item {
	out := make([]Item, 0, len(s.lines))
	for _, l := range s.lines {
		p, ok := s.products.GetByID(l.ProductID)
		if !ok {
			continue
		}
		out = append(out, Item{
			Product:  p,
			Quantity: l.Quantity,
			Total:    p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out
}

func (s *Store) indexOf(productID int) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) remove(productID int) {
	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

func count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
