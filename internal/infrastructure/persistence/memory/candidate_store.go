// Package memory holds process-local stores used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// CandidateStore keeps candidates in a map guarded by one mutex. Records are
// cloned on the way in and out so callers never share state with the store.
type CandidateStore struct {
	mu         sync.RWMutex
	candidates map[string]*entity.Candidate
	now        func() time.Time
}

var _ port.CandidateRepository = (*CandidateStore)(nil)

// NewCandidateStore creates an empty store
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: make(map[string]*entity.Candidate),
		now:        time.Now,
	}
}

// Create stores a new candidate at version 1
func (s *CandidateStore) Create(_ context.Context, c *entity.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.candidates[c.ID]; exists {
		return fmt.Errorf("candidate %s: %w", c.ID, port.ErrDuplicate)
	}
	c.Version = 1
	s.candidates[c.ID] = c.Clone()
	return nil
}

// Load returns a copy of the candidate and its version
func (s *CandidateStore) Load(_ context.Context, id string) (*entity.Candidate, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.candidates[id]
	if !ok {
		return nil, 0, fmt.Errorf("candidate %s: %w", id, port.ErrCandidateNotFound)
	}
	return c.Clone(), c.Version, nil
}

// Save compares the stored version and swaps in the new record. Inside a
// TransactionManager transaction the comparison and the swap happen at commit.
func (s *CandidateStore) Save(ctx context.Context, c *entity.Candidate, expectedVersion int64) error {
	if b := batchFrom(ctx); b != nil {
		c.Version = expectedVersion + 1
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = s.now()
		}
		b.saves = append(b.saves, pendingSave{store: s, candidate: c.Clone(), expected: expectedVersion})
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.candidates[c.ID]
	if !ok {
		return fmt.Errorf("candidate %s: %w", c.ID, port.ErrCandidateNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("candidate %s at version %d, expected %d: %w", c.ID, stored.Version, expectedVersion, port.ErrVersionConflict)
	}

	c.Version = expectedVersion + 1
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = s.now()
	}
	s.candidates[c.ID] = c.Clone()
	return nil
}

// List scans all candidates and applies the filter
func (s *CandidateStore) List(_ context.Context, filter port.CandidateFilter) ([]*entity.Candidate, error) {
	s.mu.RLock()
	all := make([]*entity.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		all = append(all, c.Clone())
	}
	s.mu.RUnlock()

	return filter.Apply(all), nil
}
