package middleware

import (
	"net/http"
	"time"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// CookiePreferences stores visitor preferences as first-party cookies, one cookie per key.
type CookiePreferences struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

// NewCookiePreferences binds preference storage to one request/response pair.
func NewCookiePreferences(w http.ResponseWriter, r *http.Request, secure bool) *CookiePreferences {
	return &CookiePreferences{r: r, w: w, secure: secure}
}

func (p *CookiePreferences) Get(key string) (string, error) {
	c, err := p.r.Cookie(key)
	if err != nil {
		return "", i18n.ErrPreferenceNotFound
	}
	return c.Value, nil
}

func (p *CookiePreferences) Set(key, value string) error {
	http.SetCookie(p.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(languageCookieMaxAge.Seconds()),
	})
	return nil
}

// LocaleOptions tunes the Locale middleware.
type LocaleOptions struct {
	// Negotiate seeds visitors without a stored choice from Accept-Language.
	Negotiate bool
	Secure    bool
}

// Locale builds the visitor's language store from the language cookie and attaches it to
// the request context. A ?hl= query parameter switches and persists the language. The
// active language is mirrored in Content-Language.
func Locale(bundle *i18n.Bundle, opts LocaleOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeOpts := []i18n.StoreOption{
				i18n.WithObserver(func(l i18n.Language) {
					w.Header().Set("Content-Language", string(l))
				}),
			}
			if opts.Negotiate {
				w.Header().Add("Vary", "Accept-Language")
				storeOpts = append(storeOpts, i18n.WithDefault(bundle.Resolve(r.Header.Get("Accept-Language"))))
			}
			store := i18n.NewStore(bundle, NewCookiePreferences(w, r, opts.Secure), storeOpts...)
			if q := r.URL.Query().Get("hl"); q != "" {
				_ = store.SetLanguage(i18n.Language(q))
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithStore(r.Context(), store)))
		})
	}
}
