package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CandidateStore implements port.CandidateRepository on Redis.
// Each candidate is one JSON value; a set indexes all ids.
type CandidateStore struct {
	client *Client
}

var _ port.CandidateRepository = (*CandidateStore)(nil)

// NewCandidateStore creates a candidate store
func NewCandidateStore(client *Client) *CandidateStore {
	return &CandidateStore{client: client}
}

// Create stores a new candidate at version 1
func (s *CandidateStore) Create(ctx context.Context, c *entity.Candidate) error {
	stored := c.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode candidate: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.candidateKey(c.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	if !ok {
		return fmt.Errorf("candidate %s: %w", c.ID, port.ErrDuplicate)
	}
	if err := s.client.SAdd(ctx, s.indexKey(), c.ID).Err(); err != nil {
		return fmt.Errorf("index candidate: %w", err)
	}

	c.Version = 1
	return nil
}

// Load returns the candidate and its version
func (s *CandidateStore) Load(ctx context.Context, id string) (*entity.Candidate, int64, error) {
	c, err := s.get(ctx, s.client, id)
	if err != nil {
		return nil, 0, err
	}
	return c, c.Version, nil
}

// Save swaps in the candidate if the stored version equals expectedVersion.
// A concurrent write between WATCH and EXEC aborts the transaction and is
// reported as a version conflict. Inside a TransactionManager transaction the
// write is queued and checked at commit.
func (s *CandidateStore) Save(ctx context.Context, c *entity.Candidate, expectedVersion int64) error {
	key := s.candidateKey(c.ID)

	next := c.Clone()
	next.Version = expectedVersion + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode candidate: %w", err)
	}

	if b := batchFrom(ctx); b != nil {
		b.saves = append(b.saves, pendingSave{store: s, id: c.ID, key: key, data: data, expected: expectedVersion})
		c.Version = next.Version
		return nil
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := s.get(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		if stored.Version != expectedVersion {
			return fmt.Errorf("candidate %s at version %d, expected %d: %w", c.ID, stored.Version, expectedVersion, port.ErrVersionConflict)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("candidate %s changed during save: %w", c.ID, port.ErrVersionConflict)
	}
	if err != nil {
		return err
	}

	c.Version = next.Version
	return nil
}

// List loads every indexed candidate and applies the filter
func (s *CandidateStore) List(ctx context.Context, filter port.CandidateFilter) ([]*entity.Candidate, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list candidate ids: %w", err)
	}
	if len(ids) == 0 {
		return []*entity.Candidate{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.candidateKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	all := make([]*entity.Candidate, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed but missing
			continue
		}
		var c entity.Candidate
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode candidate %s: %w", ids[i], err)
		}
		all = append(all, &c)
	}
	return filter.Apply(all), nil
}

func (s *CandidateStore) get(ctx context.Context, r getter, id string) (*entity.Candidate, error) {
	raw, err := r.Get(ctx, s.candidateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("candidate %s: %w", id, port.ErrCandidateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}

	var c entity.Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode candidate %s: %w", id, err)
	}
	return &c, nil
}

func (s *CandidateStore) candidateKey(id string) string {
	return s.client.key("candidate", id)
}

func (s *CandidateStore) indexKey() string {
	return s.client.key("candidates")
}
