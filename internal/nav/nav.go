package nav

import (
	"path"
	"strings"
)

// Item represents a navigation entry.
type Item struct {
	Path     string // e.g. "/shop"
	LabelKey string // i18n key, e.g. "nav.shop"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/shop", LabelKey: "nav.shop"},
}

// Pages is the "Pages" dropdown.
var Pages = []Item{
	{Path: "/pages/about", LabelKey: "nav.aboutUs"},
	{Path: "/pages/story", LabelKey: "nav.ourStory"},
	{Path: "/pages/partner", LabelKey: "nav.partner"},
	{Path: "/faq", LabelKey: "nav.faq"},
}

// Contact sits after the dropdown.
var Contact = Item{Path: "/pages/contact", LabelKey: "nav.contact"}

// Build renders the main navigation with active state given the current path.
func Build(currentPath string) []RenderedItem {
	return render(Main, currentPath)
}

// BuildPages renders the dropdown entries.
func BuildPages(currentPath string) []RenderedItem {
	return render(Pages, currentPath)
}

// BuildContact renders the contact link.
func BuildContact(currentPath string) RenderedItem {
	return render([]Item{Contact}, currentPath)[0]
}

func render(list []Item, currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(list))
	for _, it := range list {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/shop" or "/shop/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// sections maps first path segments to the crumb shown for them. Product pages hang under
// the shop.
var sections = map[string]Item{
	"shop":     {Path: "/shop", LabelKey: "nav.shop"},
	"products": {Path: "/shop", LabelKey: "nav.shop"},
	"faq":      {Path: "/faq", LabelKey: "nav.faq"},
	"pages":    {Path: "", LabelKey: "nav.pages"},
}

// Breadcrumbs builds breadcrumb entries from the current path. The last crumb can be given
// an explicit label (a product or page title); otherwise the segment is prettified.
func Breadcrumbs(currentPath, lastLabel string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return crumbs
	}

	if sec, ok := sections[parts[0]]; ok {
		crumbs = append(crumbs, Crumb{Href: sec.Path, LabelKey: sec.LabelKey, Active: len(parts) == 1})
	} else {
		crumbs = append(crumbs, Crumb{Href: "/" + parts[0], Label: titleFromSegment(parts[0]), Active: len(parts) == 1})
	}

	href := "/" + parts[0]
	for i := 1; i < len(parts); i++ {
		href = href + "/" + parts[i]
		last := i == len(parts)-1
		label := titleFromSegment(parts[i])
		if last && lastLabel != "" {
			label = lastLabel
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: last})
	}
	if len(parts) == 1 && lastLabel != "" {
		crumbs[len(crumbs)-1].LabelKey = ""
		crumbs[len(crumbs)-1].Label = lastLabel
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
