// Package geocode resolves free-text addresses to coordinates with the
// Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/civicreporter/internal/complaints"
	platformotel "github.com/louisbranch/civicreporter/internal/platform/otel"
	"github.com/louisbranch/civicreporter/internal/platform/timeouts"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the Google Geocoding JSON endpoint.
const DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

const (
	tracerName = "github.com/louisbranch/civicreporter/geocode"
	statusOK   = "OK"
	// statusZeroResults is a successful response that matched nothing.
	statusZeroResults = "ZERO_RESULTS"
)

// Config configures a Geocoder.
type Config struct {
	APIKey   string
	Endpoint string
	// RequestsPerSecond bounds outbound calls; zero or less disables the limit.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Geocoder looks up addresses. A Geocoder without an API key never calls out.
type Geocoder struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	group    singleflight.Group
}

// New builds a Geocoder from cfg.
func New(cfg Config) *Geocoder {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeouts.GeocodeRequest}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Geocoder{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: endpoint,
		client:   client,
		limiter:  limiter,
	}
}

// Enabled reports whether lookups will reach the API.
func (g *Geocoder) Enabled() bool {
	return g != nil && g.apiKey != ""
}

type response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup returns the first result's location. ok is false when the address
// or key is blank, or when the API found nothing.
func (g *Geocoder) Lookup(ctx context.Context, address string) (complaints.Location, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" || !g.Enabled() {
		return complaints.Location{}, false, nil
	}

	// The shared call outlives any single caller's cancellation.
	results := g.group.DoChan(address, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.GeocodeRequest)
		defer cancel()
		return g.lookup(callCtx, address)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return complaints.Location{}, false, ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		return complaints.Location{}, false, res.Err
	}
	loc, _ := res.Val.(*complaints.Location)
	if loc == nil {
		return complaints.Location{}, false, nil
	}
	return *loc, true, nil
}

func (g *Geocoder) lookup(ctx context.Context, address string) (*complaints.Location, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocode rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	ctx, span := platformotel.StartClientSpan(ctx, tracerName, "geocode.lookup", req.Header)
	defer span.End()
	req = req.WithContext(ctx)

	resp, err := g.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("geocode returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	span.SetAttributes(
		attribute.String("geocode.status", payload.Status),
		attribute.Int("geocode.results", len(payload.Results)),
	)
	switch payload.Status {
	case statusOK:
		if len(payload.Results) == 0 {
			return nil, nil
		}
		loc := payload.Results[0].Geometry.Location
		return &complaints.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
	case statusZeroResults:
		return nil, nil
	default:
		msg := payload.Status
		if payload.ErrorMessage != "" {
			msg += ": " + payload.ErrorMessage
		}
		return nil, errors.New("geocode status " + msg)
	}
}
