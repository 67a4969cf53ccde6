package httpmux

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestMountStaticServesAssets(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	staticFS := fstest.MapFS{
		"reporter.css": &fstest.MapFile{Data: []byte("body{}")},
	}
	MountStatic(rootMux, staticFS)

	req := httptest.NewRequest(http.MethodGet, "/static/reporter.css", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if body := rec.Body.String(); body != "body{}" {
		t.Fatalf("body = %q, want %q", body, "body{}")
	}
}

func TestMountStaticHidesDirectoryListing(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	MountStatic(rootMux, fstest.MapFS{"reporter.css": &fstest.MapFile{Data: []byte("x")}})

	req := httptest.NewRequest(http.MethodGet, "/static/", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMountNoopsOnNilInputs(t *testing.T) {
	t.Parallel()

	MountStatic(nil, fstest.MapFS{})
	rootMux := http.NewServeMux()
	MountStatic(rootMux, nil)

	req := httptest.NewRequest(http.MethodGet, "/static/reporter.css", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
