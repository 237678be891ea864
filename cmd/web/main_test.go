package main

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
			TemplatesDir:    "../../templates",
			AssetsDir:       "../../public/assets",
		},
		Session: config.SessionConfig{
			CookieName: "rf_session",
			HashKey:    "0123456789abcdef0123456789abcdef",
			MaxAge:     time.Hour,
		},
		Store: config.StoreConfig{CartTTL: time.Hour, SweepInterval: time.Minute},
		Log:   config.LogConfig{Level: "debug"},
	}
}

type testClient struct {
	t   *testing.T
	app *app
	srv *httptest.Server
	hc  *http.Client
}

func newTestClient(t *testing.T, mutate ...func(*config.Config)) *testClient {
	t.Helper()
	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}
	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(a.routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	hc := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	c := &testClient{t: t, app: a, srv: srv, hc: hc}
	// prime the session and CSRF cookies
	res := c.get("/healthz")
	res.Body.Close()
	res = c.get("/faq")
	res.Body.Close()
	return c
}

func (c *testClient) do(req *http.Request) *http.Response {
	c.t.Helper()
	res, err := c.hc.Do(req)
	require.NoError(c.t, err)
	return res
}

func (c *testClient) get(path string, header ...string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.srv.URL+path, nil)
	require.NoError(c.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return c.do(req)
}

func (c *testClient) csrfToken() string {
	c.t.Helper()
	u, err := url.Parse(c.srv.URL)
	require.NoError(c.t, err)
	for _, ck := range c.hc.Jar.Cookies(u) {
		if ck.Name == "csrf_token" {
			return ck.Value
		}
	}
	c.t.Fatal("csrf cookie not issued")
	return ""
}

// post submits a form with the CSRF token; htmx posts carry it in the header instead.
func (c *testClient) post(path string, form url.Values, htmx bool) *http.Response {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if !htmx {
		form.Set("csrf_token", c.csrfToken())
	}
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
		req.Header.Set("X-CSRF-Token", c.csrfToken())
	}
	return c.do(req)
}

func document(t *testing.T, res *http.Response) *goquery.Document {
	t.Helper()
	defer res.Body.Close()
	doc, err := goquery.NewDocumentFromReader(res.Body)
	require.NoError(t, err)
	return doc
}

func errorBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.Error
}

func addItem(t *testing.T, c *testClient, id int) *goquery.Document {
	t.Helper()
	res := c.post("/cart/items", url.Values{"product_id": {strconv.Itoa(id)}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	return document(t, res)
}

func TestCartPersistsWithLoadedConfig(t *testing.T) {
	cfg, err := config.Load(
		config.WithEnvFile(""),
		config.WithoutSystemEnv(),
		config.WithEnvMap(map[string]string{
			"REACHFOOD_TEMPLATES_DIR": "../../templates",
			"REACHFOOD_ASSETS_DIR":    "../../public/assets",
		}),
	)
	require.NoError(t, err)

	c := newTestClient(t, func(c *config.Config) { *c = cfg })
	u, err := url.Parse(c.srv.URL)
	require.NoError(t, err)
	var names []string
	for _, ck := range c.hc.Jar.Cookies(u) {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, cfg.Session.CookieName)

	addItem(t, c, 1)

	res := c.get("/cart")
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, 1, doc.Find(".cart-line").Length())

	doc = document(t, c.get("/"))
	assert.Equal(t, "1", doc.Find("#cart-count").Text())
}

func TestHealthz(t *testing.T) {
	c := newTestClient(t)
	res := c.get("/healthz")
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHomeRendersFeaturedMeals(t *testing.T) {
	c := newTestClient(t)
	res := c.get("/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "en", res.Header.Get("Content-Language"))
	doc := document(t, res)

	html := doc.Find("html")
	assert.Equal(t, "en", html.AttrOr("lang", ""))
	assert.Equal(t, "ltr", html.AttrOr("dir", ""))
	assert.Equal(t, len(c.app.catalog.GetFeatured()), doc.Find(".featured .product-card").Length())
	assert.Equal(t, "0", doc.Find("#cart-count").Text())
	assert.Equal(t, 3, doc.Find(".feature").Length())
	assert.Equal(t, 2, doc.Find(`script[type="application/ld+json"]`).Length())
	assert.Equal(t, 2, doc.Find(`link[rel="alternate"]`).Length())
	assert.Contains(t, doc.Find("body").AttrOr("hx-headers", ""), c.csrfToken())
}

func TestLanguageToggle(t *testing.T) {
	c := newTestClient(t)

	res := c.post("/language/toggle", url.Values{"return_to": {"/shop"}}, false)
	res.Body.Close()
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/shop", res.Header.Get("Location"))

	res = c.get("/shop")
	assert.Equal(t, "ar", res.Header.Get("Content-Language"))
	doc := document(t, res)
	assert.Equal(t, "rtl", doc.Find("html").AttrOr("dir", ""))
	assert.Equal(t, "المتجر", strings.TrimSpace(doc.Find(".nav-links a.active").First().Text()))

	res = c.post("/language/toggle", nil, true)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "true", res.Header.Get("HX-Refresh"))

	doc = document(t, c.get("/"))
	assert.Equal(t, "ltr", doc.Find("html").AttrOr("dir", ""))
}

func TestLanguageRejectsUnknownCode(t *testing.T) {
	c := newTestClient(t)
	res := c.post("/language", url.Values{"lang": {"fr"}}, true)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = c.post("/language", url.Values{"lang": {"ar"}}, true)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "rtl", document(t, c.get("/")).Find("html").AttrOr("dir", ""))
}

func TestLanguageQueryParameterPersists(t *testing.T) {
	c := newTestClient(t)
	doc := document(t, c.get("/?hl=ar"))
	assert.Equal(t, "ar", doc.Find("html").AttrOr("lang", ""))

	doc = document(t, c.get("/faq"))
	assert.Equal(t, "ar", doc.Find("html").AttrOr("lang", ""), "choice is remembered")
}

func TestAcceptLanguageNegotiation(t *testing.T) {
	c := newTestClient(t, func(cfg *config.Config) { cfg.Locale.NegotiateAcceptLanguage = true })
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c.hc.Jar = jar

	doc := document(t, c.get("/", "Accept-Language", "ar-SA,ar;q=0.9,en;q=0.5"))
	assert.Equal(t, "ar", doc.Find("html").AttrOr("lang", ""))
}

func TestCartAddAccumulatesAndPrices(t *testing.T) {
	c := newTestClient(t)
	var doc *goquery.Document
	for i := 0; i < 3; i++ {
		doc = addItem(t, c, 1)
	}

	assert.Equal(t, 1, doc.Find(".cart-line").Length())
	assert.Equal(t, "3", doc.Find(".cart-line .qty").Text())
	assert.Equal(t, "$24.00", doc.Find(".subtotal").Text())
	badge := doc.Find("#cart-count")
	assert.Equal(t, "3", badge.Text())
	assert.Equal(t, "true", badge.AttrOr("hx-swap-oob", ""))

	doc = addItem(t, c, 2)
	assert.Equal(t, 2, doc.Find(".cart-line").Length())
	ids := doc.Find(".cart-line").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("data-product-id", "") })
	assert.Equal(t, []string{"1", "2"}, ids, "lines keep insertion order")
}

func TestCartCurrencySwitch(t *testing.T) {
	c := newTestClient(t)
	for i := 0; i < 3; i++ {
		addItem(t, c, 1)
	}

	res := c.post("/cart/currency", url.Values{"currency": {"SAR"}}, true)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "true", res.Header.Get("HX-Refresh"))

	doc := document(t, c.get("/cart"))
	assert.Equal(t, "﷼90.00", doc.Find(".subtotal").Text())

	res = c.post("/language", url.Values{"lang": {"ar"}}, true)
	res.Body.Close()
	doc = document(t, c.get("/cart"))
	assert.Equal(t, "90.00 ﷼", doc.Find(".subtotal").Text())

	doc = document(t, c.get("/"))
	assert.Equal(t, "SAR", doc.Find("#currency option[selected]").AttrOr("value", ""))
}

func TestCartRejectsUnknownCurrency(t *testing.T) {
	c := newTestClient(t)
	res := c.post("/cart/currency", url.Values{"currency": {"EUR"}}, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "That currency is not supported.", errorBody(t, res))
}

func TestCartQuantityAndRemove(t *testing.T) {
	c := newTestClient(t)
	addItem(t, c, 1)
	addItem(t, c, 2)

	res := c.post("/cart/items/1/quantity", url.Values{"quantity": {"5"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "6", doc.Find("#cart-count").Text())

	res = c.post("/cart/items/1/quantity", url.Values{"quantity": {"inc"}}, true)
	doc = document(t, res)
	assert.Equal(t, "7", doc.Find("#cart-count").Text())

	res = c.post("/cart/items/2/quantity", url.Values{"quantity": {"dec"}}, true)
	doc = document(t, res)
	assert.Equal(t, 1, doc.Find(".cart-line").Length(), "decrementing the last unit removes the line")

	res = c.post("/cart/items/1/quantity", url.Values{"quantity": {"-5"}}, true)
	doc = document(t, res)
	assert.Equal(t, 1, doc.Find(".cart-empty").Length())

	addItem(t, c, 3)
	res = c.post("/cart/items/3/remove", nil, true)
	doc = document(t, res)
	assert.Equal(t, "0", doc.Find("#cart-count").Text())

	res = c.post("/cart/items/42/remove", nil, true)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode, "removing an absent line is a no-op")

	res = c.post("/cart/items/1/quantity", url.Values{"quantity": {"lots"}}, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Please choose a valid quantity.", errorBody(t, res))

	res = c.post("/products/1/cart", url.Values{"quantity": {"two"}}, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Please choose a valid quantity.", errorBody(t, res))
}

func TestCartRejectsUnknownProduct(t *testing.T) {
	c := newTestClient(t)
	res := c.post("/cart/items", url.Values{"product_id": {"999"}}, true)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "That meal is not in our catalog.", errorBody(t, res))

	res = c.post("/cart/items", url.Values{"product_id": {"abc"}}, true)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestProductPageAddClampsQuantity(t *testing.T) {
	c := newTestClient(t)
	res := c.post("/products/5/cart", url.Values{"quantity": {"25"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "10", doc.Find("#cart-count").Text())

	res = c.post("/products/5/cart", url.Values{"quantity": {"0"}}, true)
	doc = document(t, res)
	assert.Equal(t, "11", doc.Find("#cart-count").Text(), "selection below one adds a single unit")
}

func TestCartFormPostRedirectsBack(t *testing.T) {
	c := newTestClient(t)
	res := c.post("/cart/items", url.Values{"product_id": {"1"}, "return_to": {"/shop?category=asian"}}, false)
	res.Body.Close()
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/shop?category=asian", res.Header.Get("Location"))

	res = c.post("/cart/items", url.Values{"product_id": {"1"}, "return_to": {"//evil.example"}}, false)
	res.Body.Close()
	assert.Equal(t, "/", res.Header.Get("Location"))

	doc := document(t, c.get("/"))
	assert.Equal(t, "2", doc.Find("#cart-count").Text())
}

func TestCartDrawerVisibility(t *testing.T) {
	c := newTestClient(t)
	doc := document(t, c.post("/cart/toggle", nil, true))
	assert.Equal(t, 1, doc.Find("#cart-drawer.is-open").Length())

	doc = document(t, c.post("/cart/toggle", nil, true))
	assert.Equal(t, 0, doc.Find("#cart-drawer.is-open").Length())

	doc = document(t, c.post("/cart/open", nil, true))
	assert.Equal(t, 1, doc.Find("#cart-drawer.is-open").Length())
	doc = document(t, c.post("/cart/open", nil, true))
	assert.Equal(t, 1, doc.Find("#cart-drawer.is-open").Length(), "open is idempotent")

	doc = document(t, c.post("/cart/close", nil, true))
	assert.Equal(t, "true", doc.Find("#cart-drawer").AttrOr("aria-hidden", ""))
}

func TestCartsAreIsolatedPerVisitor(t *testing.T) {
	a := newTestClient(t)
	addItem(t, a, 1)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	b := &testClient{t: t, app: a.app, srv: a.srv, hc: &http.Client{Jar: jar}}
	res := b.get("/")
	doc := document(t, res)
	assert.Equal(t, "0", doc.Find("#cart-count").Text())
}

func TestCSRFIsEnforced(t *testing.T) {
	c := newTestClient(t)
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+"/cart/items", strings.NewReader("product_id=1"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := c.do(req)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestShopFiltersAndSearch(t *testing.T) {
	c := newTestClient(t)

	doc := document(t, c.get("/shop"))
	assert.Equal(t, len(c.app.catalog.GetAll()), doc.Find(".product-card").Length())
	assert.Equal(t, "/shop", doc.Find(".category-pills .pill.active").AttrOr("href", ""))

	doc = document(t, c.get("/shop?category=indian"))
	assert.Equal(t, len(c.app.catalog.GetByCategory(catalog.CategoryIndian)), doc.Find(".product-card").Length())
	assert.Equal(t, "/shop?category=indian", doc.Find(".category-pills .pill.active").AttrOr("href", ""))

	doc = document(t, c.get("/shop?q=CHICKEN"))
	assert.Equal(t, len(c.app.catalog.Search("chicken", "en")), doc.Find(".product-card").Length())
	assert.Equal(t, "noindex, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))

	doc = document(t, c.get("/shop?q=zzz"))
	assert.Equal(t, 0, doc.Find(".product-card").Length())
	assert.Equal(t, 1, doc.Find(".no-results").Length())

	doc = document(t, c.get("/shop?category=nope"))
	assert.Equal(t, len(c.app.catalog.GetAll()), doc.Find(".product-card").Length(), "unknown category shows everything")
}

func TestProductPage(t *testing.T) {
	c := newTestClient(t)
	res := c.get("/products/11")
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)

	assert.Equal(t, "Lamb Biryani", doc.Find(".product-detail h1").Text())
	assert.Equal(t, 10, doc.Find("#quantity option").Length())
	assert.Equal(t, "$8.00", doc.Find(".product-detail .price .current").Text())
	assert.LessOrEqual(t, doc.Find(".related .product-card").Length(), relatedLimit)
	assert.Equal(t, 0, doc.Find(`.related [data-product-id="11"]`).Length())
	assert.Equal(t, "product", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, "Lamb Biryani", doc.Find(".breadcrumbs [aria-current=page]").Text())

	doc = document(t, c.get("/products/11?hl=ar"))
	assert.NotEqual(t, "Lamb Biryani", doc.Find(".product-detail h1").Text(), "name is localized")
}

func TestProductNotFound(t *testing.T) {
	c := newTestClient(t)
	for _, path := range []string{"/products/999", "/products/abc", "/products/-1"} {
		res := c.get(path)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, path)
		doc := document(t, res)
		assert.Equal(t, "Product Not Found", strings.TrimSpace(doc.Find(".not-found p").Text()), path)
	}

	res := c.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "noindex", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
}

func TestFAQPage(t *testing.T) {
	c := newTestClient(t)
	doc := document(t, c.get("/faq"))
	assert.Equal(t, 4, doc.Find(".faq-section").Length())
	assert.Equal(t, 14, doc.Find(".faq-item").Length())
	assert.Equal(t, 0, doc.Find("#faq-8").Length())
	assert.Equal(t, "What is a self-heating meal?", doc.Find("#faq-1 summary").Text())
	assert.Equal(t, 0, doc.Find("[id^='faq-faq-']").Length())
}

func TestContentPages(t *testing.T) {
	c := newTestClient(t)

	res := c.get("/pages/about")
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "About ReachFood", doc.Find(".content-page h1").Text())
	assert.Equal(t, "About ReachFood | Healthy prepared meals", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find(".content-page time").Length())

	doc = document(t, c.get("/pages/contact?hl=ar"))
	assert.Equal(t, "ar", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "en", doc.Find(".content-page").AttrOr("lang", ""), "untranslated page falls back to English")
	assert.Equal(t, "noindex, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))

	res = c.get("/pages/missing")
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCheckout(t *testing.T) {
	c := newTestClient(t)

	res := c.post("/checkout", nil, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "Add a meal to your cart before checking out.", doc.Find("#checkout-result .error").Text())

	addItem(t, c, 1)
	addItem(t, c, 1)
	res = c.post("/cart/currency", url.Values{"currency": {"SAR"}}, true)
	res.Body.Close()

	res = c.post("/checkout", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc = document(t, res)
	order := doc.Find("#checkout-result .order-number").Text()
	assert.True(t, strings.HasPrefix(order, "RF-"), order)
	assert.Equal(t, "﷼60.00", doc.Find("#checkout-result .total").Text())
	assert.Equal(t, "0", doc.Find("#cart-count").Text())
	assert.Equal(t, 1, doc.Find("#cart-drawer .cart-empty").Length())

	doc = document(t, c.get("/"))
	assert.Equal(t, "SAR", doc.Find("#currency option[selected]").AttrOr("value", ""), "currency survives checkout")
}

func TestCheckoutFormPostRendersPage(t *testing.T) {
	c := newTestClient(t)
	addItem(t, c, 2)

	res := c.post("/checkout", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, 1, doc.Find("main .checkout-summary").Length())
	assert.Equal(t, "$8.00", doc.Find("main .checkout-summary .total").Text())
}

func TestNewsletter(t *testing.T) {
	c := newTestClient(t)

	res := c.post("/newsletter", url.Values{"email": {"not-an-email"}}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	doc := document(t, res)
	assert.Equal(t, "Please enter a valid email address.", doc.Find("#newsletter-form .error").Text())
	assert.Equal(t, "not-an-email", doc.Find(`#newsletter-form input[name="email"]`).AttrOr("value", ""))

	res = c.post("/newsletter", url.Values{"email": {"diner@example.com"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc = document(t, res)
	assert.Equal(t, "Thanks for subscribing!", doc.Find("#newsletter-form .success").Text())

	res = c.post("/newsletter", url.Values{"email": {"nope"}}, false)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAssetsAreServed(t *testing.T) {
	c := newTestClient(t)
	res := c.get("/assets/css/app.css")
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)

	res2 := c.get("/assets/css/app.css", "If-None-Match", etag)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotModified, res2.StatusCode)
}
