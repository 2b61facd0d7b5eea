package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// batchKey is the context key of the writes pending in a transaction
type batchKey struct{}

type pendingSave struct {
	store     *CandidateStore
	candidate *entity.Candidate
	expected  int64
}

type pendingHistory struct {
	store  *HistoryStore
	record entity.StageHistory
}

// batch collects the writes made inside WithTransaction
type batch struct {
	saves   []pendingSave
	history []pendingHistory
}

func batchFrom(ctx context.Context) *batch {
	if b, ok := ctx.Value(batchKey{}).(*batch); ok {
		return b
	}
	return nil
}

// TransactionManager makes candidate saves and history appends issued in one
// WithTransaction call visible together or not at all. Writes are queued while
// fn runs and applied under both store locks once it returns nil.
type TransactionManager struct {
	candidates *CandidateStore
	history    *HistoryStore
}

var _ port.TransactionManager = (*TransactionManager)(nil)

// NewTransactionManager binds a transaction manager to the stores it commits into
func NewTransactionManager(candidates *CandidateStore, history *HistoryStore) *TransactionManager {
	return &TransactionManager{candidates: candidates, history: history}
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
	return m.commit(b)
}

func (m *TransactionManager) commit(b *batch) error {
	m.candidates.mu.Lock()
	defer m.candidates.mu.Unlock()
	m.history.mu.Lock()
	defer m.history.mu.Unlock()

	versions := make(map[string]int64, len(b.saves))
	for _, p := range b.saves {
		if p.store != m.candidates {
			return errors.New("candidate store is not part of this transaction")
		}
		id := p.candidate.ID
		current, staged := versions[id]
		if !staged {
			stored, ok := m.candidates.candidates[id]
			if !ok {
				return fmt.Errorf("candidate %s: %w", id, port.ErrCandidateNotFound)
			}
			current = stored.Version
		}
		if current != p.expected {
			return fmt.Errorf("candidate %s at version %d, expected %d: %w", id, current, p.expected, port.ErrVersionConflict)
		}
		versions[id] = p.candidate.Version
	}
	for _, p := range b.history {
		if p.store != m.history {
			return errors.New("history store is not part of this transaction")
		}
	}

	for _, p := range b.saves {
		m.candidates.candidates[p.candidate.ID] = p.candidate
	}
	for _, p := range b.history {
		m.history.records[p.record.CandidateID] = append(m.history.records[p.record.CandidateID], p.record)
	}
	return nil
}
