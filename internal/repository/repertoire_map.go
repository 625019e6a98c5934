package repository

import (
	"context"
	"sort"
	"sync"

	"chess_repertoire/internal/domain/repertoire"
	errs "chess_repertoire/internal/errors"
)

// RepertoireMapStorage keeps repertoires in memory. Graphs are cloned on the
// way in and out, like a round trip through a real store.
type RepertoireMapStorage struct {
	mu          sync.RWMutex
	repertoires map[string]repertoire.Repertoire
}

func NewRepertoireMapStorage() *RepertoireMapStorage {
	return &RepertoireMapStorage{repertoires: make(map[string]repertoire.Repertoire)}
}

func (s *RepertoireMapStorage) GetRepertoire(_ context.Context, id string) (repertoire.Repertoire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.repertoires[id]
	if !ok {
		return repertoire.Repertoire{}, errs.ErrRepertoireNotFound
	}
	rep.Graph = rep.Graph.Clone()
	return rep, nil
}

func (s *RepertoireMapStorage) PutRepertoire(_ context.Context, rep repertoire.Repertoire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep.Graph = rep.Graph.Clone()
	s.repertoires[rep.ID] = rep
	return nil
}

func (s *RepertoireMapStorage) DeleteRepertoire(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repertoires[id]; !ok {
		return errs.ErrRepertoireNotFound
	}
	delete(s.repertoires, id)
	return nil
}

func (s *RepertoireMapStorage) ListRepertoires(_ context.Context) ([]repertoire.RepertoireSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]repertoire.RepertoireSummary, 0, len(s.repertoires))
	for _, rep := range s.repertoires {
		result = append(result, repertoire.RepertoireSummary{
			ID:        rep.ID,
			Name:      rep.Name,
			Color:     rep.Color,
			UpdatedAt: rep.UpdatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}
