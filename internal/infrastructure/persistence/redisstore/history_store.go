package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// HistoryStore appends stage history to one Redis list per candidate
type HistoryStore struct {
	client *Client
}

var _ port.HistoryRepository = (*HistoryStore)(nil)

// NewHistoryStore creates a history store
func NewHistoryStore(client *Client) *HistoryStore {
	return &HistoryStore{client: client}
}

// Create appends a record, or queues it when ctx carries a transaction
func (s *HistoryStore) Create(ctx context.Context, h *entity.StageHistory) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if b := batchFrom(ctx); b != nil {
		b.pushes = append(b.pushes, pendingPush{key: s.key(h.CandidateID), data: data})
		return nil
	}
	if err := s.client.RPush(ctx, s.key(h.CandidateID), data).Err(); err != nil {
		return fmt.Errorf("failed to create history: %w", err)
	}
	return nil
}

// GetByCandidateID returns a candidate's records in insertion order
func (s *HistoryStore) GetByCandidateID(ctx context.Context, candidateID string) ([]*entity.StageHistory, error) {
	raws, err := s.client.LRange(ctx, s.key(candidateID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	out := make([]*entity.StageHistory, 0, len(raws))
	for _, raw := range raws {
		var h entity.StageHistory
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		out = append(out, &h)
	}
	return out, nil
}

func (s *HistoryStore) key(candidateID string) string {
	return s.client.key("history", candidateID)
}
