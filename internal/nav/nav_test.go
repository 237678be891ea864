package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarksActive(t *testing.T) {
	items := Build("/shop")
	require.Len(t, items, 2)
	assert.False(t, items[0].Active, "home only matches the root")
	assert.True(t, items[1].Active)

	items = Build("")
	assert.True(t, items[0].Active)

	pages := BuildPages("/pages/story")
	require.Len(t, pages, 4)
	assert.True(t, pages[1].Active)
	assert.False(t, pages[0].Active)
}

func TestBreadcrumbsForProduct(t *testing.T) {
	crumbs := Breadcrumbs("/products/11", "Chicken Biryani")
	require.Len(t, crumbs, 3)
	assert.Equal(t, "nav.home", crumbs[0].LabelKey)
	assert.Equal(t, "/shop", crumbs[1].Href)
	assert.Equal(t, "nav.shop", crumbs[1].LabelKey)
	assert.Equal(t, "Chicken Biryani", crumbs[2].Label)
	assert.True(t, crumbs[2].Active)
}

func TestBreadcrumbsTopLevel(t *testing.T) {
	crumbs := Breadcrumbs("/shop", "")
	require.Len(t, crumbs, 2)
	assert.True(t, crumbs[1].Active)
	assert.Equal(t, "nav.shop", crumbs[1].LabelKey)

	crumbs = Breadcrumbs("/", "")
	require.Len(t, crumbs, 1)
	assert.True(t, crumbs[0].Active)

	crumbs = Breadcrumbs("/pages/our-story", "")
	require.Len(t, crumbs, 3)
	assert.Equal(t, "Our story", crumbs[2].Label)
}

func TestBuildContact(t *testing.T) {
	c := BuildContact("/pages/contact")
	assert.Equal(t, "/pages/contact", c.Href)
	assert.Equal(t, "nav.contact", c.LabelKey)
	assert.True(t, c.Active)
	assert.False(t, BuildContact("/faq").Active)
}
