package seo

// Alternate is an hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

// Meta is the head metadata rendered by the layout.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Alternates  []Alternate
	JSONLD      []string
}

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}
