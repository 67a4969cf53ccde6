// Package complaintsapi is the HTTP client for the external complaints API.
//
// The API owns storage and status transitions; this client only shapes
// requests and classifies responses so handlers can pick what to display.
package complaintsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	platformotel "github.com/louisbranch/civicreporter/internal/platform/otel"
	"github.com/louisbranch/civicreporter/internal/platform/requestctx"
	"github.com/louisbranch/civicreporter/internal/platform/timeouts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	tracerName = "github.com/louisbranch/civicreporter/complaintsapi"
	// maxErrorBody caps how much of an error response is kept for display.
	maxErrorBody = 4 << 10
	// photoFieldName and photoFileName match what the API expects for uploads.
	photoFieldName = "photo"
	photoFileName  = "photo.jpg"
)

// ErrNotFound reports that the API has no complaint with the requested id.
var ErrNotFound = apperrors.New(apperrors.CodeComplaintNotFound, "complaint not found")

// APIError is a non-success response from the complaints API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: complaints api returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client calls the complaints API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("complaints api url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse complaints api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("complaints api url must be http or https, got %q", parsed.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.APIRequest}
	}
	return &Client{baseURL: trimmed, httpClient: httpClient}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// PhotoURL returns the public URL of a stored photo, or "" when there is none.
func (c *Client) PhotoURL(photoPath string) string {
	filename := complaints.PhotoFilename(photoPath)
	if c == nil || filename == "" {
		return ""
	}
	return c.baseURL + "/uploads/" + url.PathEscape(filename)
}

// Create submits a new complaint as multipart form data.
func (c *Client) Create(ctx context.Context, submission complaints.Submission) (complaints.Complaint, error) {
	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		return complaints.Complaint{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/complaints/", nil, body)
	if err != nil {
		return complaints.Complaint{}, err
	}
	req.Header.Set("Content-Type", contentType)

	var created complaints.Complaint
	err = c.do(req, "create complaint", func(status int) bool {
		return status == http.StatusOK || status == http.StatusCreated
	}, &created)
	return created, err
}

// Get fetches one complaint by id.
func (c *Client) Get(ctx context.Context, id int64) (complaints.Complaint, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/complaints/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return complaints.Complaint{}, err
	}
	var found complaints.Complaint
	err = c.do(req, "get complaint", isOK, &found)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return complaints.Complaint{}, ErrNotFound
	}
	return found, err
}

// List returns complaints matching filter; FilterAll omits the status param.
func (c *Client) List(ctx context.Context, filter complaints.StatusFilter) ([]complaints.Complaint, error) {
	query := url.Values{}
	if !filter.IsAll() {
		query.Set("status", string(filter))
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/complaints/", query, nil)
	if err != nil {
		return nil, err
	}
	var items []complaints.Complaint
	if err := c.do(req, "list complaints", isOK, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []complaints.Complaint{}
	}
	return items, nil
}

// UpdateStatus changes a complaint's status and admin note.
func (c *Client) UpdateStatus(ctx context.Context, id int64, update complaints.StatusUpdate) (complaints.Complaint, error) {
	if err := update.Validate(); err != nil {
		return complaints.Complaint{}, err
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return complaints.Complaint{}, fmt.Errorf("encode status update: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPatch, "/complaints/"+strconv.FormatInt(id, 10), nil, bytes.NewReader(payload))
	if err != nil {
		return complaints.Complaint{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var updated complaints.Complaint
	err = c.do(req, "update complaint", isOK, &updated)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return complaints.Complaint{}, ErrNotFound
	}
	return updated, err
}

// Ping checks that the API answers a cheap listing request.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/complaints/", url.Values{"status": {string(complaints.StatusResolved)}}, nil)
	if err != nil {
		return err
	}
	return c.do(req, "ping", isOK, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	if c == nil {
		return nil, errors.New("complaints api client is not configured")
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(requestctx.RequestIDHeader, requestID)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, accept func(int) bool, out any) error {
	ctx, span := platformotel.StartClientSpan(req.Context(), tracerName, "complaintsapi."+strings.ReplaceAll(op, " ", "_"), req.Header)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	)
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if !accept(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		span.SetStatus(codes.Error, resp.Status)
		return apperrors.Wrap(apperrors.CodeUpstreamRejected, op, apiErr)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return apperrors.Wrap(apperrors.CodeUpstreamRejected, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func isOK(status int) bool {
	return status == http.StatusOK
}

type formField struct {
	name  string
	value string
}

func encodeSubmission(submission complaints.Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := []formField{
		{"title", submission.Title},
		{"description", submission.Description},
		{"address", submission.Address},
		{"reporter_email", submission.ReporterEmail},
	}
	if submission.Location != nil {
		fields = append(fields,
			formField{"latitude", strconv.FormatFloat(submission.Location.Lat, 'f', -1, 64)},
			formField{"longitude", strconv.FormatFloat(submission.Location.Lng, 'f', -1, 64)},
		)
	}
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	if len(submission.Photo) > 0 {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, photoFieldName, photoFileName))
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create photo part: %w", err)
		}
		if _, err := part.Write(submission.Photo); err != nil {
			return nil, "", fmt.Errorf("write photo part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// AsAPIError extracts the upstream response details from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
