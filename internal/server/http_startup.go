package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"careercompass/internal/ai"
	"careercompass/internal/auth"
	"careercompass/internal/config"
	"careercompass/internal/observability"
)

// Start starts the HTTP server with all configured components
func (s *Server) Start() error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	if err := s.initializeServices(om); err != nil {
		return err
	}
	defer s.closeGateway()

	vaultWatcher, err := s.startVaultWatcher()
	if err != nil {
		return err
	}

	httpServer := s.setupHTTPServer(om)

	if err := s.configureTLS(httpServer, om); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer, vaultWatcher)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeServices builds the long-lived gateway, authenticator and
// session manager the handlers depend on.
func (s *Server) initializeServices(om *observability.ObservabilityManager) error {
	gateway, err := ai.NewGateway(s.AppConfig, s.Logger, observability.NewGatewayHook(om))
	if err != nil {
		return fmt.Errorf("failed to initialize AI gateway: %w", err)
	}
	s.Gateway = gateway

	s.Auth = auth.NewService(s.AppConfig.Gateway.AuthDelay, s.Logger)
	s.Sessions = NewSessionManager(afero.NewOsFs(), s.AppConfig.Storage.DataDir, s.Logger)

	return nil
}

func (s *Server) closeGateway() {
	if s.Gateway != nil {
		if err := s.Gateway.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close AI gateway")
		}
	}
}

// startVaultWatcher begins polling Vault for API key rotation when enabled.
func (s *Server) startVaultWatcher() (*VaultWatcher, error) {
	if !s.AppConfig.Vault.Enabled || s.AppConfig.Vault.PollInterval <= 0 {
		return nil, nil
	}

	vaultClient, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Vault client: %w", err)
	}
	if vaultClient == nil {
		return nil, nil
	}

	watcher := NewVaultWatcher(vaultClient, s.AppConfig.Vault, s.SetAPIKeys, s.Logger)
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start Vault watcher: %w", err)
	}

	return watcher, nil
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	mux := s.setupRoutes(om)
	handler := om.HTTPMiddleware()(mux)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server, vaultWatcher *VaultWatcher) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			if s.CertificateManager != nil {
				// Certificates come from the manager's GetCertificate hook
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServeTLS(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
			}
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server, vaultWatcher)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server, vaultWatcher *VaultWatcher) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if vaultWatcher != nil {
		if err := vaultWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop Vault watcher")
		}
	}

	if s.CertificateManager != nil {
		if err := s.CertificateManager.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop certificate manager")
		}
	}

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
