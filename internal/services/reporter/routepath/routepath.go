// Package routepath lists the reporter's HTTP routes.
package routepath

import (
	"net/url"
	"strconv"
)

const (
	Root         = "/"
	StaticPrefix = "/static/"
	Healthz      = "/healthz"
)

const (
	Report    = "/report"
	Status    = "/status"
	Dashboard = "/dashboard"
)

const (
	Admin                 = "/admin"
	AdminLogin            = "/admin/login"
	AdminLogout           = "/admin/logout"
	AdminAudit            = "/admin/audit"
	AdminComplaintsPrefix = "/admin/complaints/"
)

// AdminComplaint is the update endpoint for one complaint.
func AdminComplaint(id int64) string {
	return AdminComplaintsPrefix + strconv.FormatInt(id, 10)
}

// AdminFiltered is the admin panel narrowed to status; blank means all.
func AdminFiltered(status string) string {
	if status == "" {
		return Admin
	}
	return Admin + "?" + url.Values{"status": {status}}.Encode()
}

// StatusLookup is the status page pre-filled with id.
func StatusLookup(id int64) string {
	return Status + "?" + url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()
}

// AdminResult is the admin panel narrowed to status after updating id,
// flagging whether the update succeeded.
func AdminResult(status string, id int64, ok bool) string {
	values := url.Values{}
	if status != "" {
		values.Set("status", status)
	}
	key := "failed"
	if ok {
		key = "updated"
	}
	values.Set(key, strconv.FormatInt(id, 10))
	return Admin + "?" + values.Encode()
}

// AdminAuditPage is the audit log narrowed by filter, starting at pageToken.
func AdminAuditPage(filter, pageToken string) string {
	values := url.Values{}
	if filter != "" {
		values.Set("filter", filter)
	}
	if pageToken != "" {
		values.Set("page_token", pageToken)
	}
	if len(values) == 0 {
		return AdminAudit
	}
	return AdminAudit + "?" + values.Encode()
}
