package i18n

import (
	"context"
	"sync"
)

// PreferenceKey is the durable storage key holding the chosen language.
const PreferenceKey = "language"

// Preferences is durable key-value storage for user choices.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Observer is told about the active language so it can mirror lang/dir onto the document.
type Observer func(lang Language)

// Store holds the active language for one visitor.
type Store struct {
	mu        sync.Mutex
	bundle    *Bundle
	prefs     Preferences
	lang      Language
	observers []Observer
}

// StoreOption customises NewStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	def       Language
	observers []Observer
}

// WithDefault sets the language used when no valid preference is stored.
func WithDefault(l Language) StoreOption {
	return func(o *storeOptions) {
		if parsed, err := ParseLanguage(string(l)); err == nil {
			o.def = parsed
		}
	}
}

// WithObserver registers a document observer.
func WithObserver(fn Observer) StoreOption {
	return func(o *storeOptions) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// NewStore reads the persisted language. Missing, unreadable or unknown values fall back to
// the default. Observers are notified of the initial language.
func NewStore(bundle *Bundle, prefs Preferences, opts ...StoreOption) *Store {
	o := storeOptions{def: DefaultLanguage}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store{bundle: bundle, prefs: prefs, lang: o.def, observers: o.observers}
	if prefs != nil {
		if raw, err := prefs.Get(PreferenceKey); err == nil {
			if l, err := ParseLanguage(raw); err == nil {
				s.lang = l
			}
		}
	}
	s.notify(s.lang)
	return s
}

// Language returns the active language.
func (s *Store) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// IsRTL is true iff the active language is Arabic.
func (s *Store) IsRTL() bool { return s.Language().IsRTL() }

// Dir returns "rtl" or "ltr" for the active language.
func (s *Store) Dir() string { return s.Language().Dir() }

// SetLanguage switches and persists the language. Persistence is best effort: a failing
// write is ignored so storage problems never break rendering.
func (s *Store) SetLanguage(code Language) error {
	l, err := ParseLanguage(string(code))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lang = l
	s.mu.Unlock()
	if s.prefs != nil {
		_ = s.prefs.Set(PreferenceKey, string(l))
	}
	s.notify(l)
	return nil
}

// ToggleLanguage flips between English and Arabic and returns the new language.
func (s *Store) ToggleLanguage() Language {
	next := s.Language().Other()
	_ = s.SetLanguage(next)
	return next
}

// T translates key in the active language, returning key when it is missing.
func (s *Store) T(key string) string {
	if s.bundle == nil {
		return key
	}
	return s.bundle.T(s.Language(), key)
}

func (s *Store) notify(l Language) {
	for _, fn := range s.observers {
		fn(l)
	}
}

type ctxKey struct{}

// WithStore attaches the visitor's locale to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// StoreFrom returns the attached locale, if any.
func StoreFrom(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// FromContext returns the attached locale and panics when the locale middleware did not run.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(ctxKey{}).(*Store); ok && s != nil {
		return s
	}
	panic("i18n: FromContext called without a locale store in context")
}
