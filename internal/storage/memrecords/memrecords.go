// Package memrecords — хранилище записей в памяти. Используется, когда
// Postgres недоступен (режим memory-only), и как дублёр в тестах.
package memrecords

import (
	"context"
	"sync"
	"time"

	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/pkg/errors"
)

type Storage struct {
	mu        sync.Mutex
	byKey     map[string]models.Record
	order     []string
	lastStamp time.Time
}

func New() *Storage {
	return &Storage{byKey: make(map[string]models.Record)}
}

func (s *Storage) Put(ctx context.Context, recs []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range recs {
		if r.TrackingNumber == "" {
			return errors.New("trackingNumber is empty")
		}
		// updated_at проставляет хранилище и он строго растёт.
		r.UpdatedAt = s.nextStamp()
		if _, ok := s.byKey[r.TrackingNumber]; !ok {
			s.order = append(s.order, r.TrackingNumber)
		}
		s.byKey[r.TrackingNumber] = r
	}
	return nil
}

func (s *Storage) GetAll(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Record, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out, nil
}

func (s *Storage) GetByKey(ctx context.Context, trackingNumber string) (models.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byKey[trackingNumber]
	return r, ok, nil
}

func (s *Storage) GetByBatch(ctx context.Context, batch string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Record
	for _, k := range s.order {
		if r := s.byKey[k]; r.Batch == batch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Storage) GetByCompany(ctx context.Context, company string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Record
	for _, k := range s.order {
		if r := s.byKey[k]; r.Company == company {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Storage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey = make(map[string]models.Record)
	s.order = nil
	return nil
}

func (s *Storage) nextStamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}
