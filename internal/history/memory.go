package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a feature has no recorded lookups.
	ErrNotFound = errors.New("no lookup history for feature")
	// ErrUnknownFeature is returned for a feature name outside Features.
	ErrUnknownFeature = errors.New("unknown feature")
)

// Feature names one of the lookup pages.
type Feature string

const (
	FeatureWeather   Feature = "weather"
	FeatureCurrency  Feature = "currency"
	FeatureGeocoding Feature = "geocoding"
	FeatureGitHub    Feature = "github"
	FeatureImages    Feature = "images"
)

// Features lists every feature that keeps history.
var Features = []Feature{FeatureWeather, FeatureCurrency, FeatureGeocoding, FeatureGitHub, FeatureImages}

// ParseFeature validates a feature name taken from a URL.
func ParseFeature(s string) (Feature, error) {
	for _, f := range Features {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFeature
}

// Entry is one successful lookup.
type Entry struct {
	ID        string    `json:"id"`
	Feature   Feature   `json:"feature"`
	Query     string    `json:"query"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"` // always UTC
}

// MemoryStore is a concurrency-safe in-memory record of recent lookups,
// newest first per feature.
type MemoryStore struct {
	mu sync.RWMutex

	data map[Feature][]Entry

	// retention configuration
	maxEntries int           // per feature
	maxAge     time.Duration // applied by Prune

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0 it is treated as unlimited; maxAge <= 0 disables Prune.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[Feature][]Entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Record stores a lookup and enforces the per-feature cap. A repeat of the
// newest query replaces it instead of stacking a duplicate.
func (s *MemoryStore) Record(feature Feature, query, summary string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Feature:   feature,
		Query:     query,
		Summary:   summary,
		Timestamp: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.data[feature]
	if len(entries) > 0 && entries[0].Query == query {
		entries = entries[1:]
	}

	entries = append([]Entry{entry}, entries...)

	// Enforce retention by count.
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}
	s.data[feature] = entries
	return entry
}

// Recent returns up to limit entries for feature, newest first. limit <= 0
// returns everything kept.
func (s *MemoryStore) Recent(feature Feature, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[feature]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Clear forgets every entry for feature.
func (s *MemoryStore) Clear(feature Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, feature)
}

// Prune drops entries older than the configured max age and reports how
// many were removed.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for feature, entries := range s.data {
		// Entries are newest first, so keep the prefix newer than cutoff.
		i := 0
		for ; i < len(entries); i++ {
			if entries[i].Timestamp.Before(cutoff) {
				break
			}
		}
		removed += len(entries) - i
		if i == 0 {
			delete(s.data, feature)
			continue
		}
		s.data[feature] = entries[:i]
	}
	return removed
}
