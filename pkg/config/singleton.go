package config

import (
	"fmt"
	"sync"
)

var (
	globalConfig *Config
	configMutex  sync.RWMutex
	initOnce     sync.Once
)

// Initialize loads configuration from path with environment overrides
// and stores it as the process-wide singleton. Call once at startup;
// later calls are no-ops.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		configMutex.Lock()
		globalConfig = cfg
		configMutex.Unlock()
	})

	return initErr
}

// Get returns the singleton configuration, or nil before a successful
// Initialize. Tests should inject explicit Config values instead.
func Get() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// Replace swaps the singleton, used by the hot-reload watcher. It
// returns an error when no configuration was initialized yet.
func Replace(cfg *Config) error {
	configMutex.Lock()
	defer configMutex.Unlock()
	if globalConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}
	globalConfig = cfg
	return nil
}
