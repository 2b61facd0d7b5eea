package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a stage history record
func (r *HistoryRepository) Create(ctx context.Context, h *entity.StageHistory) error {
	query := `
		INSERT INTO stage_history (
			id, candidate_id, actor_id, actor_role, from_stage, requested_stage,
			to_stage, label, progress_before, progress_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		h.ID,
		h.CandidateID,
		h.ActorID,
		string(h.ActorRole),
		string(h.FromStage),
		string(h.RequestedStage),
		string(h.ToStage),
		h.Label,
		h.ProgressBefore,
		h.ProgressAfter,
		h.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create history record", zap.String("candidate_id", h.CandidateID), zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}
	return nil
}

// GetByCandidateID retrieves all history records of a candidate, oldest first
func (r *HistoryRepository) GetByCandidateID(ctx context.Context, candidateID string) ([]*entity.StageHistory, error) {
	query := `
		SELECT id, candidate_id, actor_id, actor_role, from_stage, requested_stage,
			to_stage, label, progress_before, progress_after, created_at
		FROM stage_history
		WHERE candidate_id = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, candidateID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.String("candidate_id", candidateID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	records := []*entity.StageHistory{}
	for rows.Next() {
		var (
			h                         entity.StageHistory
			role, from, requested, to string
		)
		err := rows.Scan(
			&h.ID,
			&h.CandidateID,
			&h.ActorID,
			&role,
			&from,
			&requested,
			&to,
			&h.Label,
			&h.ProgressBefore,
			&h.ProgressAfter,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		h.ActorRole = entity.Role(role)
		h.FromStage = workflow.Stage(from)
		h.RequestedStage = workflow.Stage(requested)
		h.ToStage = workflow.Stage(to)
		records = append(records, &h)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
