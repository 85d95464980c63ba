package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Guit County", "Dashboard", "dashboard")

	assert.Equal(t, "Guit County", ctx.SiteTitle)
	assert.Equal(t, "Dashboard", ctx.PageTitle)
	assert.Equal(t, "dashboard", ctx.ActiveSection)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.NotNil(t, ctx.Menu)
	assert.Empty(t, ctx.Menu)
}

func TestContext_Chaining(t *testing.T) {
	ctx := NewContext("Guit County", "Dashboard", "dashboard").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Dashboard", "/dashboard", true).
		AddMenuItem("News", "/api/news", "news").
		AddMenuItem("Slides", "/api/slides", "slides")

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.True(t, ctx.Breadcrumbs[1].Active)

	assert.Equal(t, []MenuItem{
		{Title: "News", URL: "/api/news", Section: "news"},
		{Title: "Slides", URL: "/api/slides", Section: "slides"},
	}, ctx.Menu)
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Guit County", "News", "news")

	assert.True(t, ctx.IsSectionActive("news"))
	assert.False(t, ctx.IsSectionActive("dashboard"))
	assert.False(t, ctx.IsSectionActive(""))
}
