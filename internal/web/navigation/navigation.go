// Package navigation holds the page title, breadcrumbs and side menu of the
// dashboard pages.
package navigation

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one link of the side menu.
type MenuItem struct {
	Title   string
	URL     string
	Section string
}

// Context represents the navigation context for a page.
type Context struct {
	SiteTitle     string
	PageTitle     string
	ActiveSection string
	Breadcrumbs   []BreadcrumbItem
	Menu          []MenuItem
}

// NewContext creates a new navigation context.
func NewContext(siteTitle, pageTitle, activeSection string) *Context {
	return &Context{
		SiteTitle:     siteTitle,
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
		Menu:          make([]MenuItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// AddMenuItem appends a side menu link.
func (c *Context) AddMenuItem(title, url, section string) *Context {
	c.Menu = append(c.Menu, MenuItem{Title: title, URL: url, Section: section})
	return c
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
