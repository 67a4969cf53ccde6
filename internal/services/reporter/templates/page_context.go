package templates

import (
	"net/url"
	"strings"

	"github.com/louisbranch/civicreporter/internal/platform/i18n"
	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
)

// PageContext provides shared layout context for reporter pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	// Title is the untranslated catalog key of the page title.
	Title string
	// Admin marks an authenticated admin session.
	Admin bool
}

// T translates key for the page language.
func (p PageContext) T(key string, args ...any) string {
	return T(p.Loc, key, args...)
}

// PageTitle is the translated page title.
func (p PageContext) PageTitle() string {
	if p.Title == "" {
		return p.T("reporter.app.title")
	}
	return p.T(p.Title) + " · " + p.T("reporter.app.title")
}

// NavLink is one entry in the top navigation.
type NavLink struct {
	Label  string
	URL    string
	Active bool
}

// Nav returns the top navigation with the current section marked.
func (p PageContext) Nav() []NavLink {
	entries := []struct {
		key  string
		path string
	}{
		{"reporter.nav.report", routepath.Report},
		{"reporter.nav.status", routepath.Status},
		{"reporter.nav.dashboard", routepath.Dashboard},
		{"reporter.nav.admin", routepath.Admin},
	}
	links := make([]NavLink, 0, len(entries))
	for _, entry := range entries {
		links = append(links, NavLink{
			Label:  p.T(entry.key),
			URL:    entry.path,
			Active: p.CurrentPath == entry.path || strings.HasPrefix(p.CurrentPath, entry.path+"/"),
		})
	}
	return links
}

// LanguageOption represents a supported language choice.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Languages lists the supported languages with links that switch to them.
func (p PageContext) Languages() []LanguageOption {
	tags := i18n.Supported()
	options := make([]LanguageOption, 0, len(tags))
	for _, tag := range tags {
		value := tag.String()
		options = append(options, LanguageOption{
			Tag:    value,
			Label:  p.T("core.language." + value),
			URL:    LanguageURL(p.CurrentPath, p.CurrentQuery, value),
			Active: value == p.Lang,
		})
	}
	return options
}

// LanguageURL returns path with the language param set to tag.
func LanguageURL(path, rawQuery, tag string) string {
	if path == "" {
		path = routepath.Root
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Set(i18n.LangParam, tag)
	return path + "?" + values.Encode()
}
