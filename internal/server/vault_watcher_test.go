package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"careercompass/internal/config"
)

// fakeVaultClient serves a scripted key set.
type fakeVaultClient struct {
	mu    sync.Mutex
	keys  []string
	err   error
	calls int
}

func (c *fakeVaultClient) GetStringSecret(path, key string) (string, error) {
	return "", fmt.Errorf("not used")
}

func (c *fakeVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.keys, nil
}

func (c *fakeVaultClient) setKeys(keys []string) {
	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
}

func watcherConfig() config.VaultConfig {
	cfg := config.VaultConfig{PollInterval: time.Hour}
	cfg.Secrets.APIKeys = "secret/data/careercompass/api-keys"
	return cfg
}

func TestVaultWatcherAppliesRotatedKeys(t *testing.T) {
	client := &fakeVaultClient{keys: []string{"key-1", "key-2"}}

	var (
		mu      sync.Mutex
		applied [][]string
	)
	vw := NewVaultWatcher(client, watcherConfig(), func(keys []string) {
		mu.Lock()
		applied = append(applied, keys)
		mu.Unlock()
	}, testLogger)

	if err := vw.checkForUpdates(); err != nil {
		t.Fatalf("checkForUpdates: %v", err)
	}
	if len(applied) != 1 || len(applied[0]) != 2 {
		t.Fatalf("first poll should apply the initial key set, got %v", applied)
	}

	// Same keys again: no callback.
	if err := vw.checkForUpdates(); err != nil {
		t.Fatalf("checkForUpdates: %v", err)
	}
	if len(applied) != 1 {
		t.Error("unchanged keys must not trigger the callback")
	}

	// Rotation triggers again.
	client.setKeys([]string{"key-3"})
	if err := vw.checkForUpdates(); err != nil {
		t.Fatalf("checkForUpdates: %v", err)
	}
	if len(applied) != 2 || applied[1][0] != "key-3" {
		t.Errorf("rotated keys not applied: %v", applied)
	}
}

func TestVaultWatcherReadError(t *testing.T) {
	client := &fakeVaultClient{err: fmt.Errorf("sealed")}

	called := false
	vw := NewVaultWatcher(client, watcherConfig(), func([]string) { called = true }, testLogger)

	if err := vw.checkForUpdates(); err == nil {
		t.Fatal("expected an error when Vault is unreadable")
	}
	if called {
		t.Error("a failed read must not push a key set")
	}
}

func TestVaultWatcherStartStop(t *testing.T) {
	client := &fakeVaultClient{keys: []string{"k"}}
	vw := NewVaultWatcher(client, watcherConfig(), func([]string) {}, testLogger)

	if err := vw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := vw.Start(); err == nil {
		t.Error("second Start should fail while running")
	}

	status := vw.Status()
	if running, _ := status["running"].(bool); !running {
		t.Error("status should report running")
	}

	if err := vw.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := vw.Stop(); err != nil {
		t.Errorf("Stop should be idempotent: %v", err)
	}
}
