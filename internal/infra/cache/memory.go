package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
)

// MemoryConfig represents memory cache settings.
type MemoryConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" mapstructure:"ttl_seconds" default:"3600"`
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" default:"256"`
}

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

// Memory is an in-process cache for single-node deployments.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	max     int
}

// NewMemory creates a memory cache from provider settings.
func NewMemory(settings map[string]any) (*Memory, error) {
	var cfg MemoryConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		max:     cfg.MaxEntries,
	}, nil
}

// Get returns the cached value for key, if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expireAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. When the cache is full, expired entries are
// evicted first; if none are expired an arbitrary entry is dropped.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.max {
		m.evictLocked()
	}

	m.entries[key] = memoryEntry{
		value:    value,
		expireAt: time.Now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) evictLocked() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expireAt) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.max {
		return
	}
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
