package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/civicreporter/internal/services/shared/complaintsapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "civicreporter-assistant"
	serverVersion = "0.1.0"

	defaultHealthInterval = 30 * time.Second
	healthCheckTimeout    = 5 * time.Second
)

// Config defines the inputs for the assistant process.
type Config struct {
	// APIURL is the complaints API base URL.
	APIURL string
	// HealthInterval is how often the API is pinged while serving; zero
	// selects the default and a negative value disables the check.
	HealthInterval time.Duration
}

// Pinger reports whether the complaints API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server hosts the MCP tools backed by the complaints API.
type Server struct {
	mcpServer      *mcp.Server
	pinger         Pinger
	healthInterval time.Duration
}

// NewServer builds an assistant talking to the configured complaints API.
func NewServer(config Config) (*Server, error) {
	api, err := complaintsapi.New(config.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("complaints api: %w", err)
	}
	server := newServer(api, api)
	if config.HealthInterval != 0 {
		server.healthInterval = config.HealthInterval
	}
	return server, nil
}

func newServer(api ComplaintsAPI, pinger Pinger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, ComplaintStatusTool(), ComplaintStatusHandler(api))
	mcp.AddTool(mcpServer, ResolvedComplaintsTool(), ResolvedComplaintsHandler(api))
	return &Server{
		mcpServer:      mcpServer,
		pinger:         pinger,
		healthInterval: defaultHealthInterval,
	}
}

// Serve runs the assistant on stdio until the client disconnects or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("assistant server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	healthCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.pinger != nil && s.healthInterval > 0 {
		go s.monitorHealth(healthCtx)
	}

	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// monitorHealth logs when the complaints API stops answering. Tool calls keep
// running and report their own failures.
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.healthInterval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			callCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			err := s.pinger.Ping(callCtx)
			cancel()
			switch {
			case err != nil && healthy:
				log.Printf("complaints api unreachable: %v", err)
				healthy = false
			case err == nil && !healthy:
				log.Printf("complaints api reachable again")
				healthy = true
			}
		}
	}
}
