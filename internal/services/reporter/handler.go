package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/platform/i18n"
	"github.com/louisbranch/civicreporter/internal/platform/reporting"
	"github.com/louisbranch/civicreporter/internal/platform/requestctx"
	"github.com/louisbranch/civicreporter/internal/services/reporter/photo"
	"github.com/louisbranch/civicreporter/internal/services/reporter/session"
	"github.com/louisbranch/civicreporter/internal/services/reporter/storage"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"golang.org/x/text/message"
)

// ComplaintsAPI is the subset of the complaints API the web front-end uses.
type ComplaintsAPI interface {
	Create(ctx context.Context, submission complaints.Submission) (complaints.Complaint, error)
	Get(ctx context.Context, id int64) (complaints.Complaint, error)
	List(ctx context.Context, filter complaints.StatusFilter) ([]complaints.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, update complaints.StatusUpdate) (complaints.Complaint, error)
	PhotoURL(photoPath string) string
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (complaints.Location, bool, error)
}

// Dependencies wires the handler to its collaborators.
type Dependencies struct {
	API ComplaintsAPI
	// Geocoder is optional; without it complaints are sent without coordinates.
	Geocoder Geocoder
	Sessions *session.Manager
	Audit    storage.TriageAuditStore
	// MaxPhotoBytes caps uploaded photos; zero selects photo.DefaultMaxBytes.
	MaxPhotoBytes int64
}

// Handler serves the report form, status assistant, public dashboard and
// admin panel.
type Handler struct {
	api           ComplaintsAPI
	geocoder      Geocoder
	sessions      *session.Manager
	audit         storage.TriageAuditStore
	maxPhotoBytes int64
}

// NewHandler validates deps and builds the handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.API == nil {
		return nil, errors.New("complaints api is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("admin session manager is required")
	}
	if deps.Audit == nil {
		return nil, errors.New("triage audit store is required")
	}
	maxPhotoBytes := deps.MaxPhotoBytes
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = photo.DefaultMaxBytes
	}
	return &Handler{
		api:           deps.API,
		geocoder:      deps.Geocoder,
		sessions:      deps.Sessions,
		audit:         deps.Audit,
		maxPhotoBytes: maxPhotoBytes,
	}, nil
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	return i18n.Localize(w, r)
}

// pageContext resolves the language and builds the layout context for a page
// titled by titleKey.
func (h *Handler) pageContext(w http.ResponseWriter, r *http.Request, titleKey string) templates.PageContext {
	loc, lang := h.localizer(w, r)
	return templates.PageContext{
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
		Title:        titleKey,
		Admin:        adminSessionID(r) != "",
	}
}

// photoURL resolves the public upload URL for c, or "" without a photo.
func (h *Handler) photoURL(c complaints.Complaint) string {
	if !c.HasPhoto() {
		return ""
	}
	return h.api.PhotoURL(c.PhotoPath)
}

func (h *Handler) complaintView(page templates.PageContext, c complaints.Complaint) templates.ComplaintView {
	return templates.NewComplaintView(page, c, h.photoURL(c))
}

// errorMessage translates err's domain code for display.
func errorMessage(page templates.PageContext, err error) string {
	return page.T(apperrors.MessageKey(err))
}

// logUnexpected logs err unless it is one of the domain codes users cause.
func logUnexpected(action string, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidComplaintID,
		apperrors.CodeComplaintNotFound,
		apperrors.CodeTitleRequired,
		apperrors.CodePhotoInvalid,
		apperrors.CodeInvalidStatus,
		apperrors.CodeInvalidFilter,
		apperrors.CodeAdminUnauthorized:
		return
	}
	log.Printf("reporter %s: %v", action, err)
	reporting.CaptureError(fmt.Errorf("%s: %w", action, err))
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func adminSessionID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return requestctx.AdminSessionFromContext(r.Context())
}

// withAdminSession attaches a verified admin session id to the request
// context when the request carries a valid session cookie.
func (h *Handler) withAdminSession(next http.Handler) http.Handler {
	if h == nil || next == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := session.TokenFromRequest(r)
		if token != "" {
			sess, err := h.sessions.Verify(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(requestctx.WithAdminSession(r.Context(), sess.ID))
			case apperrors.CodeOf(err) == apperrors.CodeAdminUnauthorized:
				h.sessions.ClearCookie(w)
			default:
				log.Printf("reporter verify admin session: %v", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireSameOrigin rejects state-changing admin requests whose Origin or
// Referer points at another host.
func requireSameOrigin(w http.ResponseWriter, r *http.Request) bool {
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		if !sameOrigin(origin, r) {
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return false
		}
		return true
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		if !sameOrigin(referer, r) {
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return false
		}
		return true
	}
	http.Error(w, "cross-origin request rejected", http.StatusForbidden)
	return false
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	if !strings.EqualFold(parsed.Host, r.Host) {
		return false
	}
	if parsed.Scheme != "" {
		return strings.EqualFold(parsed.Scheme, requestScheme(r))
	}
	return true
}

func requestScheme(r *http.Request) string {
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		parts := strings.Split(proto, ",")
		return strings.ToLower(strings.TrimSpace(parts[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
