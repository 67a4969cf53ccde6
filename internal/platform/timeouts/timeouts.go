// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// APIRequest caps a single call from the front-end to the complaints API.
const APIRequest = 10 * time.Second

// GeocodeRequest caps a single geocoding lookup.
const GeocodeRequest = 5 * time.Second

// HealthCheck caps one upstream reachability check.
const HealthCheck = 2 * time.Second

// HealthCheckInterval is the delay between upstream reachability checks.
const HealthCheckInterval = 15 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
