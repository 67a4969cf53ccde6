package reporter

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/services/reporter/filter"
	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"github.com/louisbranch/civicreporter/internal/services/shared/htmx"
)

// auditPageSize is the number of triage records shown per page.
const auditPageSize = 25

const auditTimeLayout = "2006-01-02 15:04:05 UTC"

// HandleAdminAudit lists the triage audit log, newest first.
func (h *Handler) HandleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if adminSessionID(r) == "" {
		http.Redirect(w, r, routepath.Admin, http.StatusSeeOther)
		return
	}

	page := h.pageContext(w, r, "reporter.audit.title")
	query := r.URL.Query()
	expression := strings.TrimSpace(query.Get("filter"))
	view := templates.AuditView{Page: page, Filter: expression, PageSize: auditPageSize}

	status := http.StatusOK
	cond, err := filter.ParseTriageFilter(expression)
	if err == nil {
		var result auditPage
		result, err = h.listTriage(r, page, cond, query.Get("page_token"))
		if err == nil {
			view.Records = result.records
			if result.next != "" {
				view.NextURL = routepath.AdminAuditPage(expression, result.next)
			}
		}
	}
	if err != nil {
		logUnexpected("list triage audit", err)
		view.Error = errorMessage(page, err)
		status = apperrors.HTTPStatus(err)
	}

	htmx.RenderPage(w, r, htmx.Page{
		Full:   templates.AuditPage(view),
		Title:  page.PageTitle(),
		Status: status,
	})
}

type auditPage struct {
	records []templates.AuditRecordView
	next    string
}

func (h *Handler) listTriage(r *http.Request, page templates.PageContext, cond filter.SQLCondition, pageToken string) (auditPage, error) {
	result, err := h.audit.ListTriage(r.Context(), cond, auditPageSize, strings.TrimSpace(pageToken))
	if err != nil {
		return auditPage{}, err
	}
	out := auditPage{
		records: make([]templates.AuditRecordView, 0, len(result.Records)),
		next:    result.NextPageToken,
	}
	for _, record := range result.Records {
		out.records = append(out.records, templates.AuditRecordView{
			ComplaintID: record.ComplaintID,
			StatusLabel: page.T(record.Status.MessageKey()),
			AdminNote:   record.AdminNote,
			SessionID:   record.SessionID,
			Timestamp:   record.Timestamp.In(time.UTC).Format(auditTimeLayout),
		})
	}
	return out, nil
}
