// ABOUTME: Thread-safe holder for the live configuration
// ABOUTME: Lets the file watcher swap config while runs read it

package config

import "sync"

// SharedConfig guards a Config for concurrent readers and a single writer
type SharedConfig struct {
	mu     sync.RWMutex
	config Config
}

// NewSharedConfig creates a holder initialised with cfg
func NewSharedConfig(cfg Config) *SharedConfig {
	return &SharedConfig{config: cfg}
}

// Get returns a copy of the current config
func (s *SharedConfig) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// Update replaces the current config
func (s *SharedConfig) Update(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
}
