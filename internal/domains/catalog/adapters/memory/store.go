package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-gin-booking-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/catalog/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory catalog adapter.
type Store struct {
	mu         sync.RWMutex
	excursions map[string]domain.Excursion
	yachts     map[string]domain.Yacht
}

func NewStore() *Store {
	return &Store{excursions: map[string]domain.Excursion{}, yachts: map[string]domain.Yacht{}}
}

func (s *Store) GetExcursion(_ context.Context, id string) (*domain.Excursion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.excursions[id]
	if !ok {
		return nil, ports.ErrExcursionNotFound
	}
	return &e, nil
}

func (s *Store) GetYacht(_ context.Context, id string) (*domain.Yacht, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	y, ok := s.yachts[id]
	if !ok {
		return nil, ports.ErrYachtNotFound
	}
	y.TimeAvailable.HalfDay = append([]string(nil), y.TimeAvailable.HalfDay...)
	return &y, nil
}

func (s *Store) SaveExcursion(_ context.Context, excursion *domain.Excursion) error {
	if excursion == nil || excursion.ID == "" {
		return errors.New("excursion id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excursions[excursion.ID] = *excursion
	return nil
}

func (s *Store) SaveYacht(_ context.Context, yacht *domain.Yacht) error {
	if yacht == nil || yacht.ID == "" {
		return errors.New("yacht id is required")
	}
	clone := *yacht
	clone.TimeAvailable.HalfDay = append([]string(nil), yacht.TimeAvailable.HalfDay...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yachts[yacht.ID] = clone
	return nil
}
