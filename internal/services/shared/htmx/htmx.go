// Package htmx renders templ components for full-page and HTMX partial requests.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RequestHeaderKey is the HTMX request header used to detect partial updates.
const RequestHeaderKey = "HX-Request"

// Page describes one renderable response.
type Page struct {
	// Fragment is rendered for HTMX requests; when nil the <main> content of
	// Full is used instead.
	Fragment templ.Component
	// Full is rendered for regular navigation.
	Full templ.Component
	// Title is injected ahead of HTMX fragments that carry no <title>.
	Title string
	// Status defaults to 200.
	Status int
}

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// responseBuffer captures component rendering for HTMX responses.
type responseBuffer struct {
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	headerWrote bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), statusCode: http.StatusOK}
}

func (w *responseBuffer) Header() http.Header { return w.header }

func (w *responseBuffer) WriteHeader(status int) {
	if w.headerWrote {
		return
	}
	w.headerWrote = true
	w.statusCode = status
}

func (w *responseBuffer) Write(body []byte) (int, error) {
	return w.body.Write(body)
}

// RenderPage writes page for either a full or an HTMX request.
func RenderPage(w http.ResponseWriter, r *http.Request, page Page) {
	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}

	if !IsHTMXRequest(r) {
		full := page.Full
		if full == nil {
			full = page.Fragment
		}
		if full == nil {
			w.WriteHeader(status)
			return
		}
		templ.Handler(full, templ.WithStatus(status)).ServeHTTP(w, r)
		return
	}

	target, fromFull := page.Fragment, false
	if target == nil {
		target, fromFull = page.Full, true
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}

	capture := newResponseBuffer()
	templ.Handler(target, templ.WithStatus(status)).ServeHTTP(capture, r)
	body := capture.body.Bytes()
	if fromFull {
		if mainContent, ok := extractMainContent(body); ok {
			body = mainContent
		}
	}
	body = prependTitleIfMissing(body, TitleTag(page.Title))

	copyHeaders(w.Header(), capture.Header())
	w.Header().Del("Content-Length")
	w.WriteHeader(capture.statusCode)
	_, _ = w.Write(body)
}

func prependTitleIfMissing(body []byte, titleTag string) []byte {
	if titleTag == "" || bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return body
	}
	out := make([]byte, 0, len(titleTag)+len(body))
	out = append(out, titleTag...)
	return append(out, body...)
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if strings.EqualFold(key, "Set-Cookie") {
			for _, value := range values {
				dst.Add(key, value)
			}
			continue
		}
		for _, value := range values {
			dst.Set(key, value)
		}
	}
}

// extractMainContent returns the rendered children of the first <main>
// element in a full HTML document.
func extractMainContent(body []byte) ([]byte, bool) {
	doc, err := xhtml.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, false
	}
	main := findElement(doc, atom.Main)
	if main == nil {
		return nil, false
	}
	var out bytes.Buffer
	for child := main.FirstChild; child != nil; child = child.NextSibling {
		if err := xhtml.Render(&out, child); err != nil {
			return nil, false
		}
	}
	return out.Bytes(), true
}

func findElement(node *xhtml.Node, tag atom.Atom) *xhtml.Node {
	if node.Type == xhtml.ElementNode && node.DataAtom == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}
