package server

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"careercompass/internal/config"
	"careercompass/internal/errors"
)

// VaultClientInterface defines the Vault operations the watcher needs
type VaultClientInterface interface {
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// VaultWatcher polls Vault for rotated server API keys and pushes new key
// sets into the running server without a restart.
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onAPIKeys    func(keys []string)
	logger       *errors.Logger

	stopChan chan struct{}
	running  bool
	lastKeys []string
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client VaultClientInterface, vaultConfig config.VaultConfig, onAPIKeys func(keys []string), logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:       client,
		secretPath:   vaultConfig.Secrets.APIKeys,
		pollInterval: vaultConfig.PollInterval,
		onAPIKeys:    onAPIKeys,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start begins polling Vault for API key changes
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	go vw.pollLoop()
	vw.logger.Info("Vault watcher started",
		"secret_path", vw.secretPath,
		"poll_interval", vw.pollInterval)
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	vw.logger.Info("Vault watcher stopped")
	return nil
}

// pollLoop polls Vault for API key changes
func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := vw.checkForUpdates(); err != nil {
				vw.logger.LogError(err, "Failed to check Vault for updates")
			}
		case <-vw.stopChan:
			return
		}
	}
}

// checkForUpdates fetches the current key set and applies it when it differs
// from the last observed one.
func (vw *VaultWatcher) checkForUpdates() error {
	keys, err := vw.client.GetStringSliceSecret(vw.secretPath, "keys")
	if err != nil {
		return fmt.Errorf("failed to read API keys: %w", err)
	}

	vw.mu.Lock()
	changed := !slices.Equal(keys, vw.lastKeys)
	if changed {
		vw.lastKeys = keys
	}
	vw.mu.Unlock()

	if changed {
		vw.logger.Info("Vault API keys rotated, applying new key set",
			"key_count", len(keys))
		vw.onAPIKeys(keys)
	}
	return nil
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"key_count":     len(vw.lastKeys),
	}
}
