package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
)

type MappingStore struct {
	mu    sync.RWMutex
	items map[mapping.PlayerKey]mapping.Mapping
}

func NewMappingStore(seed ...mapping.Mapping) *MappingStore {
	items := make(map[mapping.PlayerKey]mapping.Mapping, len(seed))
	for _, m := range seed {
		items[m.Key] = m
	}
	return &MappingStore{items: items}
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
	return nil
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
	return nil
}
