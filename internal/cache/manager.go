// Package cache provides a TTL-aware disk cache for expensive remote fetches.
// Payloads are serialized with msgpack, one file per key, with a JSON metadata
// index tracking timestamps. The cache is an optimization, never a correctness
// requirement: every failure degrades to a miss or a no-op.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// entryMeta is the bookkeeping record for a single cache entry.
type entryMeta struct {
	Timestamp  time.Time      `json:"timestamp"`
	DataType   string         `json:"data_type"`
	Identifier string         `json:"identifier"`
	Params     map[string]any `json:"params,omitempty"`
}

// Manager is a disk-backed key-value cache keyed by
// (data type, identifier, params hash).
//
// The metadata index and payload files are not protected against concurrent
// writers in other processes; last writer wins. In-process access is guarded
// by a mutex so the parallel refresh workers can share one Manager.
type Manager struct {
	dir          string
	metadataPath string

	mu       sync.Mutex
	metadata map[string]entryMeta

	log zerolog.Logger
}

// NewManager creates a cache manager scoped to dir, creating it if needed and
// loading any existing metadata index. A corrupt or missing index starts empty.
func NewManager(dir string, log zerolog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	m := &Manager{
		dir:          dir,
		metadataPath: filepath.Join(dir, "cache_metadata.json"),
		metadata:     make(map[string]entryMeta),
		log:          log.With().Str("component", "cache").Logger(),
	}

	data, err := os.ReadFile(m.metadataPath)
	if err == nil {
		if err := json.Unmarshal(data, &m.metadata); err != nil {
			m.log.Warn().Err(err).Msg("Corrupt cache metadata, starting with empty index")
			m.metadata = make(map[string]entryMeta)
		}
	}

	return m, nil
}

// Key computes the composite cache key: data type and identifier joined with
// underscores, plus the first 8 hex chars of the md5 of the sorted params JSON
// when params are present.
func Key(dataType, identifier string, params map[string]any) string {
	parts := []string{dataType, identifier}
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]any, 0, len(params)*2)
		for _, k := range keys {
			ordered = append(ordered, k, params[k])
		}
		encoded, _ := json.Marshal(ordered)
		sum := md5.Sum(encoded)
		parts = append(parts, hex.EncodeToString(sum[:])[:8])
	}
	return strings.Join(parts, "_")
}

func (m *Manager) payloadPath(key string) string {
	return filepath.Join(m.dir, key+".bin")
}

// Get retrieves a cached value into dest (a pointer), returning true on a
// fresh hit. Expired entries are deleted lazily. A miss is a normal outcome
// and never an error; deserialization failures are logged and degrade to a
// miss.
func (m *Manager) Get(dataType, identifier string, params map[string]any, dest any) bool {
	key := Key(dataType, identifier, params)

	m.mu.Lock()
	meta, ok := m.metadata[key]
	if !ok {
		// An orphaned payload file (e.g. after a corrupt index reset) has
		// no timestamp to check against the TTL, so it counts as a miss.
		m.mu.Unlock()
		return false
	}
	if time.Since(meta.Timestamp) > TTLFor(dataType) {
		m.deleteLocked(key)
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	data, err := os.ReadFile(m.payloadPath(key))
	if err != nil {
		return false
	}

	if err := msgpack.Unmarshal(data, dest); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to deserialize cache entry")
		return false
	}
	return true
}

// Set stores a value, overwriting any previous entry for the same key.
// Returns false on any I/O failure; cache write failures are non-fatal.
func (m *Manager) Set(dataType, identifier string, value any, params map[string]any) bool {
	key := Key(dataType, identifier, params)

	data, err := msgpack.Marshal(value)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to serialize cache entry")
		return false
	}

	if err := os.WriteFile(m.payloadPath(key), data, 0644); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = entryMeta{
		Timestamp:  time.Now(),
		DataType:   dataType,
		Identifier: identifier,
		Params:     params,
	}
	return m.saveMetadataLocked()
}

// Delete removes an entry. Returns false only on I/O failure; deleting a
// missing entry is a no-op.
func (m *Manager) Delete(dataType, identifier string, params map[string]any) bool {
	key := Key(dataType, identifier, params)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(key)
}

func (m *Manager) deleteLocked(key string) bool {
	if err := os.Remove(m.payloadPath(key)); err != nil && !os.IsNotExist(err) {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to remove cache file")
		return false
	}
	if _, ok := m.metadata[key]; ok {
		delete(m.metadata, key)
		return m.saveMetadataLocked()
	}
	return true
}

// ClearAll removes every payload file and resets the metadata index.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(m.dir, "*.bin"))
	if err != nil {
		return fmt.Errorf("failed to list cache files: %w", err)
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			m.log.Warn().Err(err).Str("file", f).Msg("Failed to remove cache file")
		}
	}

	m.metadata = make(map[string]entryMeta)
	if !m.saveMetadataLocked() {
		return fmt.Errorf("failed to persist cache metadata")
	}
	return nil
}

// ClearExpired removes exactly the entries whose age exceeds their data
// type's TTL, returning the number removed.
func (m *Manager) ClearExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, meta := range m.metadata {
		if time.Since(meta.Timestamp) > TTLFor(meta.DataType) {
			if err := os.Remove(m.payloadPath(key)); err != nil && !os.IsNotExist(err) {
				m.log.Warn().Err(err).Str("key", key).Msg("Failed to remove expired cache file")
			}
			delete(m.metadata, key)
			deleted++
		}
	}

	if deleted > 0 {
		m.saveMetadataLocked()
	}
	return deleted
}

// Stats summarizes cache contents.
type Stats struct {
	TotalItems  int            `json:"total_items"`
	ByType      map[string]int `json:"by_type"`
	TotalSizeMB float64        `json:"total_size_mb"`
	OldestItem  *time.Time     `json:"oldest_item,omitempty"`
	NewestItem  *time.Time     `json:"newest_item,omitempty"`
}

// GetStats returns bookkeeping statistics over the metadata index and the
// payload files on disk.
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		TotalItems: len(m.metadata),
		ByType:     make(map[string]int),
	}

	for _, meta := range m.metadata {
		stats.ByType[meta.DataType]++
		ts := meta.Timestamp
		if stats.OldestItem == nil || ts.Before(*stats.OldestItem) {
			t := ts
			stats.OldestItem = &t
		}
		if stats.NewestItem == nil || ts.After(*stats.NewestItem) {
			t := ts
			stats.NewestItem = &t
		}
	}

	files, err := filepath.Glob(filepath.Join(m.dir, "*.bin"))
	if err == nil {
		var total int64
		for _, f := range files {
			if info, err := os.Stat(f); err == nil {
				total += info.Size()
			}
		}
		stats.TotalSizeMB = float64(total) / (1024 * 1024)
	}

	return stats
}

// saveMetadataLocked persists the metadata index. Callers must hold mu.
func (m *Manager) saveMetadataLocked() bool {
	data, err := json.MarshalIndent(m.metadata, "", "  ")
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to marshal cache metadata")
		return false
	}
	if err := os.WriteFile(m.metadataPath, data, 0644); err != nil {
		m.log.Warn().Err(err).Msg("Failed to write cache metadata")
		return false
	}
	return true
}
