package reporter

import (
	"errors"
	"log"
	"net/http"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/services/reporter/photo"
	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"github.com/louisbranch/civicreporter/internal/services/shared/complaintsapi"
	"github.com/louisbranch/civicreporter/internal/services/shared/htmx"
)

// multipartOverhead is the allowance for non-file form fields on top of the
// photo size limit.
const multipartOverhead = 1 << 20

// HandleRoot redirects the bare root to the report form.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, routepath.Report, http.StatusFound)
}

// HandleHealthz answers liveness checks.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// HandleReport renders the complaint form and accepts submissions.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		page := h.pageContext(w, r, "reporter.report.title")
		h.renderReport(w, r, templates.ReportView{Page: page}, http.StatusOK)
	case http.MethodPost:
		h.submitReport(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) renderReport(w http.ResponseWriter, r *http.Request, view templates.ReportView, status int) {
	view.Accept = photo.Accept()
	htmx.RenderPage(w, r, htmx.Page{
		Full:   templates.ReportPage(view),
		Title:  view.Page.PageTitle(),
		Status: status,
	})
}

func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r, "reporter.report.title")
	view := templates.ReportView{Page: page}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		view.Error = errorMessage(page, apperrors.Wrap(apperrors.CodePhotoInvalid, "parse report form", err))
		h.renderReport(w, r, view, http.StatusBadRequest)
		return
	}

	submission := complaints.Submission{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Address:       r.FormValue("address"),
		ReporterEmail: r.FormValue("reporter_email"),
	}
	submission.Normalize()
	view.Form = templates.ReportForm{
		Title:         submission.Title,
		Description:   submission.Description,
		Address:       submission.Address,
		ReporterEmail: submission.ReporterEmail,
	}
	if err := submission.Validate(); err != nil {
		view.Error = errorMessage(page, err)
		h.renderReport(w, r, view, apperrors.HTTPStatus(err))
		return
	}

	if submission.Address != "" && h.geocoder != nil {
		location, found, err := h.geocoder.Lookup(r.Context(), submission.Address)
		if err != nil {
			log.Printf("reporter geocode %q: %v", submission.Address, err)
		} else if found {
			submission.Location = &location
		}
	}

	photoBytes, err := h.readPhoto(r)
	if err != nil {
		view.Error = errorMessage(page, err)
		h.renderReport(w, r, view, apperrors.HTTPStatus(err))
		return
	}
	submission.Photo = photoBytes

	created, err := h.api.Create(r.Context(), submission)
	if err != nil {
		logUnexpected("create complaint", err)
		view.Error = page.T("reporter.report.failed", submitFailureDetail(page, err))
		h.renderReport(w, r, view, apperrors.HTTPStatus(err))
		return
	}

	h.renderReport(w, r, templates.ReportView{Page: page, SubmittedID: created.ID}, http.StatusOK)
}

// readPhoto returns the normalized JPEG of the uploaded photo, or nil when
// none was attached.
func (h *Handler) readPhoto(r *http.Request) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePhotoInvalid, "read photo", err)
	}
	defer file.Close()
	return photo.Normalize(header.Filename, file, h.maxPhotoBytes)
}

// submitFailureDetail is the upstream response body when the API rejected the
// complaint, otherwise the translated error.
func submitFailureDetail(page templates.PageContext, err error) string {
	if apiErr, ok := complaintsapi.AsAPIError(err); ok && apiErr.Body != "" {
		return apiErr.Body
	}
	return errorMessage(page, err)
}
