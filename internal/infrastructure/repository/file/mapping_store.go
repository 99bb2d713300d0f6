package file

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

const mappingsFile = "name-mappings.json"

// MappingStore keeps every mapping in memory and rewrites name-mappings.json
// on each change. A failed write keeps the in-memory change and returns the
// error; the previous file content stays intact.
type MappingStore struct {
	mu    sync.RWMutex
	path  string
	items map[mapping.PlayerKey]mapping.Mapping
}

// NewMappingStore loads dir/name-mappings.json. A missing or unreadable file
// starts the store empty.
func NewMappingStore(ctx context.Context, dir string, logger *logging.Logger) *MappingStore {
	if logger == nil {
		logger = logging.Default()
	}
	s := &MappingStore{
		path:  filepath.Join(dir, mappingsFile),
		items: make(map[mapping.PlayerKey]mapping.Mapping),
	}

	var stored map[mapping.PlayerKey]mapping.Mapping
	found, err := readJSON(s.path, &stored)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "name mappings unreadable, starting empty", "path", s.path, "error", err)
	case found:
		for key, m := range stored {
			m.Key = key
			s.items[key] = m
		}
		logger.InfoContext(ctx, "name mappings loaded", "path", s.path, "count", len(s.items))
	}
	return s
}

func (s *MappingStore) Get(_ context.Context, key mapping.PlayerKey) (mapping.Mapping, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[key]
	return m, ok, nil
}

func (s *MappingStore) Put(_ context.Context, key mapping.PlayerKey, m mapping.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Key = key
	s.items[key] = m
	return writeJSON(s.path, s.items)
}

func (s *MappingStore) List(_ context.Context) ([]mapping.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mapping.Mapping, 0, len(s.items))
	for _, m := range s.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MappingStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[mapping.PlayerKey]mapping.Mapping)
	return writeJSON(s.path, s.items)
}
