package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Language is a supported display language code.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// DefaultLanguage is used when no usable preference exists.
const DefaultLanguage = English

// ErrUnsupportedLanguage is returned for codes other than en and ar.
var ErrUnsupportedLanguage = errors.New("i18n: unsupported language")

// ParseLanguage accepts exactly the supported codes, ignoring case and surrounding space.
func ParseLanguage(code string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(code))); l {
	case English, Arabic:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
}

// IsRTL reports whether the language is written right to left.
func (l Language) IsRTL() bool { return l == Arabic }

// Dir returns the HTML dir attribute value.
func (l Language) Dir() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// Other returns the opposite language of the en/ar pair.
func (l Language) Other() Language {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Bundle is the translation table: language -> nested key path -> string.
type Bundle struct {
	dict      map[Language]map[string]any
	fallback  Language
	supported []Language
	matcher   language.Matcher
}

// Load reads <lang>.yaml for every supported language from fsys. Only the fallback
// language file is mandatory.
func Load(fsys fs.FS, fallback Language, supported []Language) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []Language{English, Arabic}
	}
	b := &Bundle{
		dict:     map[Language]map[string]any{},
		fallback: fallback,
	}
	// the fallback goes first so the matcher treats it as the default
	ordered := []Language{fallback}
	for _, l := range supported {
		if l != fallback {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		raw, err := fs.ReadFile(fsys, string(l)+".yaml")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]any
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.supported = append(b.supported, l)
		tags = append(tags, language.Make(string(l)))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported lists loaded languages sorted by code.
func (b *Bundle) Supported() []Language {
	out := append([]Language(nil), b.supported...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() Language { return b.fallback }

// Lookup walks the dot-separated key through lang's table. It fails when a segment is
// missing, when the key ends on a section instead of a string, or when the string is empty.
func (b *Bundle) Lookup(lang Language, key string) (string, bool) {
	var node any = b.dict[lang]
	for _, seg := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[seg]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// T returns the translation for key in lang, or key itself when it cannot be resolved.
// There is no cross-language fallback: an untranslated key shows up as the key.
func (b *Bundle) T(lang Language, key string) string {
	if s, ok := b.Lookup(lang, key); ok {
		return s
	}
	return key
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.supported) {
		return b.fallback
	}
	return b.supported[idx]
}
