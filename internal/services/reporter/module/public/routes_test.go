package public

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandleRoot(http.ResponseWriter, *http.Request)      { f.lastCall = "root" }
func (f *fakeService) HandleHealthz(http.ResponseWriter, *http.Request)   { f.lastCall = "healthz" }
func (f *fakeService) HandleReport(http.ResponseWriter, *http.Request)    { f.lastCall = "report" }
func (f *fakeService) HandleStatus(http.ResponseWriter, *http.Request)    { f.lastCall = "status" }
func (f *fakeService) HandleDashboard(http.ResponseWriter, *http.Request) { f.lastCall = "dashboard" }

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		method   string
		path     string
		wantCall string
	}{
		{method: http.MethodGet, path: "/", wantCall: "root"},
		{method: http.MethodGet, path: "/unknown", wantCall: "root"},
		{method: http.MethodGet, path: "/healthz", wantCall: "healthz"},
		{method: http.MethodGet, path: "/report", wantCall: "report"},
		{method: http.MethodPost, path: "/report", wantCall: "report"},
		{method: http.MethodGet, path: "/status?id=4", wantCall: "status"},
		{method: http.MethodGet, path: "/dashboard", wantCall: "dashboard"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			svc.lastCall = ""

			mux.ServeHTTP(rec, req)

			if svc.lastCall != tc.wantCall {
				t.Fatalf("lastCall = %q, want %q", svc.lastCall, tc.wantCall)
			}
		})
	}
}

func TestRegisterRoutesNoopsOnNilInputs(t *testing.T) {
	t.Parallel()

	RegisterRoutes(nil, &fakeService{})
	mux := http.NewServeMux()
	RegisterRoutes(mux, nil)

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
