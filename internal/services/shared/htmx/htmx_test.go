package htmx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testComponent struct {
	body string
}

func (c testComponent) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, c.body)
	return err
}

func htmxRequest() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.Header.Set(RequestHeaderKey, "true")
	return r
}

func TestIsHTMXRequest(t *testing.T) {
	t.Parallel()
	if IsHTMXRequest(nil) {
		t.Fatal("IsHTMXRequest(nil) = true, want false")
	}
	if !IsHTMXRequest(htmxRequest()) {
		t.Fatal("IsHTMXRequest(request) = false, want true")
	}
}

func TestTitleTag(t *testing.T) {
	t.Parallel()
	if got, want := TitleTag(`Complaint <Admin>`), "<title>Complaint &lt;Admin&gt;</title>"; got != want {
		t.Fatalf("TitleTag(...) = %q, want %q", got, want)
	}
	if TitleTag("  ") != "" {
		t.Fatal("blank title should produce no tag")
	}
}

func TestRenderPageForNonHTMXUsesFullRender(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	RenderPage(w, httptest.NewRequest(http.MethodGet, "/test", nil), Page{
		Fragment: testComponent{body: "<div>fragment</div>"},
		Full:     testComponent{body: "<html><body>full</body></html>"},
		Title:    "Provided",
	})
	if got := w.Body.String(); got != "<html><body>full</body></html>" {
		t.Fatalf("rendered body = %q, want full page body", got)
	}
}

func TestRenderPageAppliesStatus(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	RenderPage(w, httptest.NewRequest(http.MethodGet, "/test", nil), Page{
		Full:   testComponent{body: "denied"},
		Status: http.StatusUnauthorized,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = httptest.NewRecorder()
	RenderPage(w, htmxRequest(), Page{Fragment: testComponent{body: "bad"}, Status: http.StatusBadRequest})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("htmx status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRenderPageForHTMXInjectsMissingTitle(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	RenderPage(w, htmxRequest(), Page{Fragment: testComponent{body: "<section>fragment</section>"}, Title: "Fragment Page"})

	got := w.Body.String()
	if got != "<title>Fragment Page</title><section>fragment</section>" {
		t.Fatalf("rendered body = %q", got)
	}
}

func TestRenderPageForHTMXPreservesExistingTitle(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	RenderPage(w, htmxRequest(), Page{Fragment: testComponent{body: "<title>Already Set</title><p>x</p>"}, Title: "Injected"})
	if got := w.Body.String(); strings.Contains(got, "Injected") {
		t.Fatalf("expected existing title preserved, got %q", got)
	}
}

func TestRenderPageForHTMXExtractsMainFromFull(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	full := testComponent{
		body: `<!doctype html><html><head><title>Full</title></head><body><nav>menu</nav><main id="content"><h1>Dashboard</h1><p>Total &amp; more</p></main></body></html>`,
	}
	RenderPage(w, htmxRequest(), Page{Full: full, Title: "Dashboard"})

	got := w.Body.String()
	want := "<title>Dashboard</title><h1>Dashboard</h1><p>Total &amp; more</p>"
	if got != want {
		t.Fatalf("rendered body = %q, want %q", got, want)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestExtractMainContentWithoutMain(t *testing.T) {
	t.Parallel()
	if _, ok := extractMainContent([]byte("<div>no main</div>")); ok {
		t.Fatal("expected no main content")
	}
}

func TestCopyHeadersUsesSingleValueSemanticsForNonSetCookie(t *testing.T) {
	t.Parallel()
	dst := http.Header{}
	src := http.Header{}
	src.Add("Content-Type", "text/plain")
	src.Add("Content-Type", "text/html; charset=utf-8")
	src.Add("Set-Cookie", "id=1")
	src.Add("Set-Cookie", "token=abc")

	copyHeaders(dst, src)

	if got := dst.Values("Content-Type"); len(got) != 1 || got[0] != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %v", got)
	}
	if got := dst.Values("Set-Cookie"); len(got) != 2 {
		t.Fatalf("expected two Set-Cookie values, got %v", got)
	}
}
