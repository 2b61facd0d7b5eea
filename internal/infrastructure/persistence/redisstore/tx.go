package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
)

// batchKey is the context key of the writes pending in a transaction
type batchKey struct{}

type pendingSave struct {
	store    *CandidateStore
	id       string
	key      string
	data     []byte
	expected int64
}

type pendingPush struct {
	key  string
	data []byte
}

// batch collects the writes made inside WithTransaction
type batch struct {
	saves  []pendingSave
	pushes []pendingPush
}

func batchFrom(ctx context.Context) *batch {
	if b, ok := ctx.Value(batchKey{}).(*batch); ok {
		return b
	}
	return nil
}

// TransactionManager queues candidate saves and history appends while fn runs
// and commits them in one MULTI/EXEC, watching every saved candidate key so a
// concurrent writer aborts the whole batch.
type TransactionManager struct {
	client *Client
}

var _ port.TransactionManager = (*TransactionManager)(nil)

// NewTransactionManager creates a transaction manager on client
func NewTransactionManager(client *Client) *TransactionManager {
	return &TransactionManager{client: client}
}

// WithTransaction implements port.TransactionManager.
// Nested calls join the batch already carried by ctx.
func (m *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if batchFrom(ctx) != nil {
		return fn(ctx)
	}

	b := &batch{}
	if err := fn(context.WithValue(ctx, batchKey{}, b)); err != nil {
		return err
	}
	return m.commit(ctx, b)
}

func (m *TransactionManager) commit(ctx context.Context, b *batch) error {
	if len(b.saves) == 0 && len(b.pushes) == 0 {
		return nil
	}

	queue := func(pipe redis.Pipeliner) error {
		for _, p := range b.saves {
			pipe.Set(ctx, p.key, p.data, 0)
		}
		for _, p := range b.pushes {
			pipe.RPush(ctx, p.key, p.data)
		}
		return nil
	}

	if len(b.saves) == 0 {
		if _, err := m.client.TxPipelined(ctx, queue); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}

	keys := make([]string, len(b.saves))
	for i, p := range b.saves {
		keys[i] = p.key
	}

	err := m.client.Watch(ctx, func(tx *redis.Tx) error {
		checked := make(map[string]bool, len(b.saves))
		for _, p := range b.saves {
			if checked[p.id] {
				continue
			}
			checked[p.id] = true
			stored, err := p.store.get(ctx, tx, p.id)
			if err != nil {
				return err
			}
			if stored.Version != p.expected {
				return fmt.Errorf("candidate %s at version %d, expected %d: %w", p.id, stored.Version, p.expected, port.ErrVersionConflict)
			}
		}
		_, err := tx.TxPipelined(ctx, queue)
		return err
	}, keys...)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("candidates changed during commit: %w", port.ErrVersionConflict)
	}
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
