package reporter

import (
	"net/http"

	"github.com/louisbranch/civicreporter/internal/services/reporter/module/admin"
	"github.com/louisbranch/civicreporter/internal/services/reporter/module/public"
	"github.com/louisbranch/civicreporter/internal/services/reporter/static"
	"github.com/louisbranch/civicreporter/internal/services/reporter/transport/httpmux"
)

// Routes builds the reporter's root handler with its middleware stack.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	httpmux.MountStatic(mux, static.FS)
	public.RegisterRoutes(mux, h)
	admin.RegisterRoutes(mux, h)
	return Chain(mux,
		RecoverPanic(),
		RequestID(),
		AccessLog(),
		ReportErrors(),
		h.withAdminSession,
	)
}
