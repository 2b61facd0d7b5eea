package memory

import (
	"context"
	"sync"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// HistoryStore appends stage history records per candidate
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string][]entity.StageHistory
}

var _ port.HistoryRepository = (*HistoryStore)(nil)

// NewHistoryStore creates an empty store
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{records: make(map[string][]entity.StageHistory)}
}

// Create appends a record, or queues it when ctx carries a transaction
func (s *HistoryStore) Create(ctx context.Context, h *entity.StageHistory) error {
	if b := batchFrom(ctx); b != nil {
		b.history = append(b.history, pendingHistory{store: s, record: *h})
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[h.CandidateID] = append(s.records[h.CandidateID], *h)
	return nil
}

// GetByCandidateID returns the records of one candidate in insertion order
func (s *HistoryStore) GetByCandidateID(_ context.Context, candidateID string) ([]*entity.StageHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[candidateID]
	out := make([]*entity.StageHistory, len(records))
	for i := range records {
		r := records[i]
		out[i] = &r
	}
	return out, nil
}
