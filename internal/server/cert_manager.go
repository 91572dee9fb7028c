package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"careercompass/internal/config"
	"careercompass/internal/errors"
	"careercompass/internal/observability"
)

// CertificateManager serves the current TLS certificate and reloads it when
// the files on disk change.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert       *tls.Certificate
	serverCertExpiry time.Time
	lastReloadTime   time.Time

	watcher *CertWatcher

	config *config.TLSConfig
	logger *errors.Logger

	reloadCallbacks []ReloadCallback

	observabilityManager *observability.ObservabilityManager

	reloadCount        int64
	reloadSuccessCount int64
	reloadFailureCount int64
	lastReloadSuccess  bool
	lastReloadError    string

	stopExpiryMonitor chan struct{}
}

// ReloadCallback is called when certificates are reloaded
type ReloadCallback func(success bool, err error)

// CertificateMetrics holds metrics about certificate operations
type CertificateMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

// NewCertificateManager creates a new certificate manager
func NewCertificateManager(tlsConfig *config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		config:               tlsConfig,
		logger:               logger,
		observabilityManager: om,
		stopExpiryMonitor:    make(chan struct{}),
	}
}

// Start loads the initial certificates and begins watching for changes.
func (cm *CertificateManager) Start() error {
	if err := cm.loadCertificates(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	cm.startExpiryMonitoring()

	watcher, err := NewCertWatcher(
		cm.config.CertFile,
		cm.config.KeyFile,
		cm.config.CAFile,
		cm.config.DebounceDelay,
		cm.triggerReload,
		cm.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate watcher: %w", err)
	}
	cm.watcher = watcher

	if err := cm.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}

	cm.logger.Info("Certificate manager started",
		"cert_file", cm.config.CertFile,
		"key_file", cm.config.KeyFile,
		"ca_file", cm.config.CAFile)

	return nil
}

// Stop stops the certificate manager and its watcher
func (cm *CertificateManager) Stop() error {
	close(cm.stopExpiryMonitor)

	if cm.watcher != nil {
		if err := cm.watcher.Stop(); err != nil {
			cm.logger.LogError(err, "Failed to stop certificate watcher")
			return err
		}
	}

	cm.logger.Info("Certificate manager stopped")
	return nil
}

// GetServerCertificate returns the current server certificate for TLS handshakes
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}

	if time.Now().After(cm.serverCertExpiry) {
		cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
			"expiry", cm.serverCertExpiry,
			"server_name", hello.ServerName)
		return nil, fmt.Errorf("server certificate expired")
	}

	return cm.serverCert, nil
}

// ReloadCertificates manually triggers a certificate reload
func (cm *CertificateManager) ReloadCertificates() error {
	return cm.loadCertificates()
}

// AddReloadCallback adds a callback to be called when certificates are reloaded
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// CheckExpiry returns the time until the server certificate expires
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}

	return time.Until(cm.serverCertExpiry), nil
}

// GetMetrics returns certificate management metrics
func (cm *CertificateManager) GetMetrics() *CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return &CertificateMetrics{
		ReloadCount:        cm.reloadCount,
		ReloadSuccessCount: cm.reloadSuccessCount,
		ReloadFailureCount: cm.reloadFailureCount,
		LastReloadTime:     cm.lastReloadTime,
		LastReloadSuccess:  cm.lastReloadSuccess,
		LastReloadError:    cm.lastReloadError,
	}
}

// loadCertificates loads the certificate pair from disk
func (cm *CertificateManager) loadCertificates() error {
	cert, err := tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load server cert/key: %w", err)
	}

	var expiry time.Time
	if len(cert.Certificate) > 0 {
		x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return fmt.Errorf("failed to parse server certificate: %w", err)
		}
		expiry = x509Cert.NotAfter
	}

	cm.mu.Lock()
	cm.serverCert = &cert
	cm.serverCertExpiry = expiry
	cm.lastReloadTime = time.Now()
	cm.reloadCount++
	cm.reloadSuccessCount++
	cm.lastReloadSuccess = true
	cm.lastReloadError = ""
	callbacks := make([]ReloadCallback, len(cm.reloadCallbacks))
	copy(callbacks, cm.reloadCallbacks)
	cm.mu.Unlock()

	cm.recordReloadMetric(true, nil)
	for _, callback := range callbacks {
		go callback(true, nil)
	}

	cm.logger.Info("Certificates reloaded successfully",
		"server_cert_expiry", expiry)

	return nil
}

// triggerReload is called by the watcher when certificate files change
func (cm *CertificateManager) triggerReload() {
	cm.logger.Info("Certificate reload triggered by file watcher")

	if err := cm.loadCertificates(); err != nil {
		cm.handleReloadError(err)
	}
}

// handleReloadError records a failed reload without replacing the current
// certificate.
func (cm *CertificateManager) handleReloadError(err error) {
	cm.mu.Lock()
	cm.reloadCount++
	cm.reloadFailureCount++
	cm.lastReloadSuccess = false
	cm.lastReloadError = err.Error()
	callbacks := make([]ReloadCallback, len(cm.reloadCallbacks))
	copy(callbacks, cm.reloadCallbacks)
	cm.mu.Unlock()

	cm.recordReloadMetric(false, err)
	cm.logger.LogError(err, "Failed to reload certificates")

	for _, callback := range callbacks {
		go callback(false, err)
	}
}

// recordReloadMetric records certificate reload metrics to OpenTelemetry
func (cm *CertificateManager) recordReloadMetric(success bool, err error) {
	metrics := cm.metrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()

	attrs := []attribute.KeyValue{
		attribute.String("cert_type", "server"),
	}
	if success {
		attrs = append(attrs, attribute.String("status", "success"))
	} else {
		attrs = append(attrs, attribute.String("status", "failure"))
		if err != nil {
			attrs = append(attrs, attribute.String("error", err.Error()))
		}
	}
	metrics.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attrs...))

	cm.updateExpiryMetrics()
}

// updateExpiryMetrics updates the certificate expiry time gauge
func (cm *CertificateManager) updateExpiryMetrics() {
	metrics := cm.metrics()
	if metrics == nil {
		return
	}

	cm.mu.RLock()
	expiry := cm.serverCertExpiry
	cm.mu.RUnlock()

	if expiry.IsZero() {
		return
	}

	metrics.CertExpiryTime.Record(context.Background(), time.Until(expiry).Seconds(),
		metric.WithAttributes(attribute.String("cert_type", "server")))
}

func (cm *CertificateManager) metrics() *observability.Metrics {
	if cm.observabilityManager == nil {
		return nil
	}
	return cm.observabilityManager.GetMetrics()
}

// startExpiryMonitoring periodically refreshes the expiry gauge
func (cm *CertificateManager) startExpiryMonitoring() {
	if cm.observabilityManager == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.updateExpiryMetrics()
			case <-cm.stopExpiryMonitor:
				return
			}
		}
	}()

	cm.logger.Info("Certificate expiry monitoring started")
}
