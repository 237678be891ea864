package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/format"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
)

// renderer parses every .tmpl under dir. Pages are the "base" layout with "content" bound to
// "page_<name>". In dev mode templates are reparsed on each request.
type renderer struct {
	dir    string
	dev    bool
	bundle *i18n.Bundle

	mu    sync.Mutex
	root  *template.Template
	pages map[string]*template.Template
}

func newRenderer(dir string, dev bool, bundle *i18n.Bundle) (*renderer, error) {
	rd := &renderer{dir: dir, dev: dev, bundle: bundle}
	if err := rd.load(); err != nil {
		return nil, err
	}
	return rd, nil
}

// load parses the tree and binds every page before anything executes; html/template refuses
// to clone a set that has already run.
func (rd *renderer) load() error {
	root, err := rd.parse()
	if err != nil {
		return err
	}
	pages := map[string]*template.Template{}
	for _, t := range root.Templates() {
		name, ok := strings.CutPrefix(t.Name(), "page_")
		if !ok {
			continue
		}
		clone, err := root.Clone()
		if err != nil {
			return err
		}
		if _, err := clone.New("content").Parse(`{{template "page_` + name + `" .}}`); err != nil {
			return err
		}
		pages[name] = clone
	}
	rd.root = root
	rd.pages = pages
	return nil
}

func (rd *renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			return rd.bundle.T(i18n.Language(lang), key)
		},
		"date": func(t time.Time, lang string) string {
			return format.Date(t, lang)
		},
		// dict passes several values to a nested template
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				k, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[k] = pairs[i+1]
			}
			return m, nil
		},
		// jsonld marks encoding/json output, which already escapes <, > and &, as script-safe
		"jsonld": func(s string) template.JS { return template.JS(s) },
	}
}

func (rd *renderer) parse() (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(rd.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", rd.dir)
	}
	return template.New("_root").Funcs(rd.funcs()).ParseFiles(files...)
}

func (rd *renderer) page(name string) (*template.Template, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.dev {
		if err := rd.load(); err != nil {
			return nil, err
		}
	}
	t, ok := rd.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page template %q", name)
	}
	return t, nil
}

func (rd *renderer) fragment() (*template.Template, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.dev {
		if err := rd.load(); err != nil {
			return nil, err
		}
	}
	return rd.root, nil
}

// renderPage executes the layout with the named page body.
func (rd *renderer) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, err := rd.page(name)
	if err != nil {
		rd.fail(w, r, "template parse error", err)
		return
	}
	rd.execute(w, r, status, t, "base", data)
}

// renderTemplate executes a single named template, used for htmx fragments.
func (rd *renderer) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, err := rd.fragment()
	if err != nil {
		rd.fail(w, r, "template parse error", err)
		return
	}
	rd.execute(w, r, status, t, name, data)
}

func (rd *renderer) execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	// buffer so a failing template does not leave a half-written 200
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		rd.fail(w, r, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *renderer) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	observability.FromContext(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
}
