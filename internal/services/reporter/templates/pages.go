// Package templates renders reporter pages from embedded html/template files
// as templ components.
package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed html/*.gohtml
var files embed.FS

const layoutTemplate = "layout"

var (
	reportTemplates    = mustPage("report.gohtml")
	statusTemplates    = mustPage("status.gohtml")
	dashboardTemplates = mustPage("dashboard.gohtml")
	loginTemplates     = mustPage("login.gohtml")
	adminTemplates     = mustPage("admin.gohtml")
	auditTemplates     = mustPage("audit.gohtml")
)

func mustPage(name string) *template.Template {
	return template.Must(template.New(name).ParseFS(files, "html/layout.gohtml", "html/"+name))
}

func page(set *template.Template, data any) templ.Component {
	return templ.FromGoHTML(set.Lookup(layoutTemplate), data)
}

// ReportPage renders the complaint form.
func ReportPage(v ReportView) templ.Component { return page(reportTemplates, v) }

// StatusPage renders the status assistant.
func StatusPage(v StatusView) templ.Component { return page(statusTemplates, v) }

// StatusTranscript renders only the chat transcript for HTMX lookups.
func StatusTranscript(v StatusView) templ.Component {
	return templ.FromGoHTML(statusTemplates.Lookup("transcript"), v)
}

// DashboardPage renders the public dashboard.
func DashboardPage(v DashboardView) templ.Component { return page(dashboardTemplates, v) }

// AdminLoginPage renders the password gate.
func AdminLoginPage(v AdminLoginView) templ.Component { return page(loginTemplates, v) }

// AdminPage renders the triage panel.
func AdminPage(v AdminView) templ.Component { return page(adminTemplates, v) }

// AdminItem renders one triage row for HTMX swaps.
func AdminItem(v AdminItemView) templ.Component {
	return templ.FromGoHTML(adminTemplates.Lookup("admin_item"), v)
}

// AuditPage renders the audit log.
func AuditPage(v AuditView) templ.Component { return page(auditTemplates, v) }
