package i18n

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachfood2026-cmyk/reachfoodshop/locales"
)

func loadBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load(locales.FS, English, []Language{English, Arabic})
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	b := loadBundle(t)

	assert.Equal(t, English, b.Resolve("ar;q=0.8, en;q=0.9"))
	assert.Equal(t, Arabic, b.Resolve("ar-SA,en;q=0.5"))
	assert.Equal(t, English, b.Resolve("fr-FR"))
	assert.Equal(t, English, b.Resolve(""))
}

func TestLookupNestedKeys(t *testing.T) {
	b := loadBundle(t)

	got, ok := b.Lookup(English, "features.ourPromise")
	require.True(t, ok)
	assert.Equal(t, "Our Promise", got)

	got, ok = b.Lookup(Arabic, "nav.shop")
	require.True(t, ok)
	assert.Equal(t, "المتجر", got)
}

func TestTranslateFallsBackToKey(t *testing.T) {
	b := loadBundle(t)

	for _, lang := range []Language{English, Arabic, Language("fr")} {
		assert.Equal(t, "nonexistent.key", b.T(lang, "nonexistent.key"))
	}
	// a section is not a translation
	assert.Equal(t, "nav", b.T(English, "nav"))
	// walking past a leaf fails at the next segment
	assert.Equal(t, "nav.shop.extra", b.T(English, "nav.shop.extra"))
}

func TestTranslateDoesNotCrossLanguages(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("greeting:\n  hello: \"Hello\"\n  only: \"English only\"\n")},
		"ar.yaml": {Data: []byte("greeting:\n  hello: \"مرحبا\"\n  only: \"\"\n")},
	}
	b, err := Load(fsys, English, nil)
	require.NoError(t, err)

	assert.Equal(t, "مرحبا", b.T(Arabic, "greeting.hello"))
	assert.Equal(t, "greeting.only", b.T(Arabic, "greeting.only"), "empty strings count as missing")
	assert.Equal(t, "English only", b.T(English, "greeting.only"))
}

func TestLoadRequiresFallbackFile(t *testing.T) {
	_, err := Load(fstest.MapFS{"ar.yaml": {Data: []byte("a: b\n")}}, English, []Language{English, Arabic})
	require.Error(t, err)

	b, err := Load(fstest.MapFS{"en.yaml": {Data: []byte("a: b\n")}}, English, []Language{English, Arabic})
	require.NoError(t, err)
	assert.Equal(t, []Language{English}, b.Supported())
}

func TestParseLanguage(t *testing.T) {
	l, err := ParseLanguage(" AR ")
	require.NoError(t, err)
	assert.Equal(t, Arabic, l)

	_, err = ParseLanguage("ar-SA")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestStoreDefaultsToEnglish(t *testing.T) {
	b := loadBundle(t)

	tests := []struct {
		name  string
		prefs Preferences
	}{
		{name: "no storage", prefs: nil},
		{name: "absent value", prefs: NewMemoryPreferences(nil)},
		{name: "corrupted value", prefs: NewMemoryPreferences(map[string]string{PreferenceKey: "klingon"})},
		{name: "storage unavailable", prefs: &MemoryPreferences{GetErr: errors.New("disk gone")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(b, tc.prefs)
			assert.Equal(t, English, s.Language())
			assert.False(t, s.IsRTL())
			assert.Equal(t, "ltr", s.Dir())
		})
	}
}

func TestStoreReadsPersistedLanguage(t *testing.T) {
	b := loadBundle(t)
	prefs := NewMemoryPreferences(map[string]string{PreferenceKey: "ar"})

	s := NewStore(b, prefs)
	assert.Equal(t, Arabic, s.Language())
	assert.True(t, s.IsRTL())
	assert.Equal(t, "rtl", s.Dir())
	assert.Equal(t, "الرئيسية", s.T("nav.home"))
}

func TestSetLanguagePersistsAndNotifies(t *testing.T) {
	b := loadBundle(t)
	prefs := NewMemoryPreferences(nil)
	var seen []Language
	s := NewStore(b, prefs, WithObserver(func(l Language) { seen = append(seen, l) }))

	require.NoError(t, s.SetLanguage(Arabic))
	stored, err := prefs.Get(PreferenceKey)
	require.NoError(t, err)
	assert.Equal(t, "ar", stored)
	assert.Equal(t, []Language{English, Arabic}, seen)

	err = s.SetLanguage(Language("de"))
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
	assert.Equal(t, Arabic, s.Language())
}

func TestSetLanguageIgnoresWriteFailure(t *testing.T) {
	b := loadBundle(t)
	prefs := &MemoryPreferences{SetErr: errors.New("quota exceeded")}
	s := NewStore(b, prefs)

	require.NoError(t, s.SetLanguage(Arabic))
	assert.Equal(t, Arabic, s.Language())
}

func TestToggleLanguageIsInvolution(t *testing.T) {
	b := loadBundle(t)
	s := NewStore(b, NewMemoryPreferences(nil))

	start := s.Language()
	assert.Equal(t, Arabic, s.ToggleLanguage())
	assert.Equal(t, s.Language() == Arabic, s.IsRTL())
	assert.Equal(t, start, s.ToggleLanguage())
	assert.Equal(t, s.Language() == Arabic, s.IsRTL())
}

func TestWithDefault(t *testing.T) {
	b := loadBundle(t)

	s := NewStore(b, nil, WithDefault(Arabic))
	assert.Equal(t, Arabic, s.Language())

	s = NewStore(b, nil, WithDefault(Language("xx")))
	assert.Equal(t, English, s.Language())
}

func TestFromContextPanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() { FromContext(context.Background()) })

	s := NewStore(loadBundle(t), nil)
	assert.Same(t, s, FromContext(WithStore(context.Background(), s)))
}
