package server

import (
	"sync"
	"time"

	"careercompass/internal/ai"
	"careercompass/internal/auth"
	"careercompass/internal/config"
	"careercompass/internal/errors"
)

// Server wires the AI gateway, the mock authenticator and the session layer
// behind one HTTP surface.
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	Gateway  *ai.Gateway
	Auth     *auth.Service
	Sessions *SessionManager

	CertificateManager *CertificateManager

	apiKeyMu sync.RWMutex
	apiKeys  map[string]bool

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *errors.Logger
}

// ServerConfig holds the configuration for creating a new server
type ServerConfig struct {
	AppConfig *config.Config
	Version   string
	Logger    *errors.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(cfg ServerConfig) *Server {
	srv := cfg.AppConfig.Server

	s := &Server{
		Host:           srv.Host,
		Port:           srv.Port,
		Version:        cfg.Version,
		AppConfig:      cfg.AppConfig,
		TLSConfig:      srv.TLS,
		ReadTimeout:    srv.ReadTimeout,
		WriteTimeout:   srv.WriteTimeout,
		IdleTimeout:    srv.IdleTimeout,
		MaxRequestSize: srv.MaxRequestSize,
		RateLimit:      &srv.RateLimit,
		Logger:         cfg.Logger,
	}

	s.SetAPIKeys(srv.APIKeys)

	if srv.RateLimit.Enabled {
		s.RateLimiter = NewRateLimiter(
			srv.RateLimit.RequestsPerMin,
			srv.RateLimit.BurstCapacity,
			cfg.Logger,
		)
	}

	return s
}

// SetAPIKeys replaces the accepted API key set. Safe to call while the
// server is running; the Vault watcher uses it for live key rotation.
func (s *Server) SetAPIKeys(keys []string) {
	m := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			m[key] = true
		}
	}

	s.apiKeyMu.Lock()
	s.apiKeys = m
	s.apiKeyMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.apiKeyMu.RLock()
	defer s.apiKeyMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) isValidAPIKey(key string) bool {
	s.apiKeyMu.RLock()
	defer s.apiKeyMu.RUnlock()
	return s.apiKeys[key]
}
