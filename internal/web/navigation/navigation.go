// Package navigation holds the menu and breadcrumb state of an admin page.
package navigation

import (
	"strings"

	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

// Crumb is one breadcrumb link.
type Crumb struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state of one rendered page.
type Context struct {
	PageTitle   string
	Section     string
	Breadcrumbs []Crumb
}

// NewContext returns the context of a page titled title inside the section
// mounted at section. section may be empty for pages outside any section.
func NewContext(title, section string) *Context {
	return &Context{
		PageTitle:   title,
		Section:     section,
		Breadcrumbs: make([]Crumb, 0, 3),
	}
}

// ForRule returns the context of the landing page of an admin section.
func ForRule(rule rbac.PageRule) *Context {
	return NewContext(rule.Title, rule.Prefix).
		AddBreadcrumb("Home", rbac.AdminPrefix, false).
		AddBreadcrumb(rule.Title, rule.Prefix, true)
}

// AddBreadcrumb appends a breadcrumb.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, Crumb{Title: title, URL: url, Active: active})

	return c
}

// IsSectionActive reports whether the menu entry at prefix is the current one.
// The dashboard only matches itself.
func (c *Context) IsSectionActive(prefix string) bool {
	if c.Section == "" || prefix == "" {
		return false
	}

	if prefix == rbac.AdminPrefix {
		return c.Section == prefix
	}

	return c.Section == prefix || strings.HasPrefix(c.Section, prefix+"/")
}
