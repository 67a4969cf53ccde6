package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	platformgrpc "github.com/louisbranch/civicreporter/internal/platform/grpc"
	"github.com/louisbranch/civicreporter/internal/platform/timeouts"
	"github.com/louisbranch/civicreporter/internal/services/reporter/geocode"
	"github.com/louisbranch/civicreporter/internal/services/reporter/session"
	reportersqlite "github.com/louisbranch/civicreporter/internal/services/reporter/storage/sqlite"
	"github.com/louisbranch/civicreporter/internal/services/shared/complaintsapi"
	"golang.org/x/sync/errgroup"
)

// Config defines the inputs for the reporter web process.
type Config struct {
	HTTPAddr string
	// APIURL is the complaints API base URL.
	APIURL string
	// GoogleAPIKey enables address geocoding when set.
	GoogleAPIKey string
	GeocodeRPS   float64
	// AdminPassword gates the admin panel.
	AdminPassword string
	// SessionSecret signs admin session tokens; blank selects a random
	// per-process secret.
	SessionSecret string
	SecureCookie  bool
	DBPath        string
	// HealthAddr enables the gRPC health endpoint when set.
	HealthAddr    string
	MaxPhotoBytes int64
}

// Server hosts the reporter HTTP server and its optional health endpoint.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	health     *platformgrpc.HealthServer
	store      *reportersqlite.Store
}

// NewServer opens the local store and wires the handler to the complaints API.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.DBPath) == "" {
		return nil, errors.New("db path is required")
	}

	api, err := complaintsapi.New(config.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("complaints api: %w", err)
	}

	store, err := openReporterStore(config.DBPath)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(session.Config{
		Password:     config.AdminPassword,
		Secret:       []byte(config.SessionSecret),
		Store:        store,
		SecureCookie: config.SecureCookie,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("admin sessions: %w", err)
	}

	deps := Dependencies{
		API:           api,
		Sessions:      sessions,
		Audit:         store,
		MaxPhotoBytes: config.MaxPhotoBytes,
	}
	if strings.TrimSpace(config.GoogleAPIKey) != "" {
		deps.Geocoder = geocode.New(geocode.Config{
			APIKey:            config.GoogleAPIKey,
			RequestsPerSecond: config.GeocodeRPS,
		})
	} else {
		log.Printf("geocoding disabled: no Google API key configured")
	}

	handler, err := NewHandler(deps)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	server := &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}

	if healthAddr := strings.TrimSpace(config.HealthAddr); healthAddr != "" {
		health, err := platformgrpc.NewHealthServer(platformgrpc.HealthConfig{
			Addr:     healthAddr,
			Checker:  api,
			Services: []string{platformgrpc.ReporterService},
		})
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		server.health = health
	}
	return server, nil
}

// ListenAndServe runs the HTTP server, and the health endpoint when
// configured, until the context ends or either fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("reporter server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.serveHTTP(groupCtx)
	})
	if s.health != nil {
		group.Go(func() error {
			return s.health.Serve(groupCtx)
		})
	}
	return group.Wait()
}

func (s *Server) serveHTTP(ctx context.Context) error {
	serveErr := make(chan error, 1)
	log.Printf("reporter listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the health listener and the local store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close reporter store: %v", err)
		}
	}
}

func openReporterStore(path string) (*reportersqlite.Store, error) {
	store, err := reportersqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reporter sqlite store: %w", err)
	}
	return store, nil
}
