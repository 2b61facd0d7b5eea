package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/sqlite"
)

const candidateColumns = `
	id, name, contact, avatar_url, guardian, bank_account, payment, medical_status,
	hiring_officer_id, customer_type, documents, stage, progress, flight_ticket,
	videos, version, created_at, updated_at`

// CandidateRepository implements port.CandidateRepository.
// Nested values are stored as JSON text columns.
type CandidateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *sql.DB, logger *zap.Logger) *CandidateRepository {
	return &CandidateRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new candidate at version 1
func (r *CandidateRepository) Create(ctx context.Context, c *entity.Candidate) error {
	cols, err := encodeCandidate(c)
	if err != nil {
		return err
	}

	query := `INSERT INTO candidates (` + candidateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		c.ID, c.Name, c.Contact, c.AvatarURL, cols.guardian, c.BankAccount, cols.payment,
		string(c.MedicalStatus), c.HiringOfficerID, string(c.CustomerType), cols.documents,
		string(c.Stage), c.Progress, cols.flightTicket, cols.videos,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create candidate", zap.String("candidate_id", c.ID), zap.Error(err))
		return mapConstraint(err, "candidate "+c.ID)
	}

	c.Version = 1
	return nil
}

// Load returns the candidate and its persisted version
func (r *CandidateRepository) Load(ctx context.Context, id string) (*entity.Candidate, int64, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = ?`

	c, err := scanCandidate(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("candidate %s: %w", id, port.ErrCandidateNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to load candidate", zap.String("candidate_id", id), zap.Error(err))
		return nil, 0, fmt.Errorf("failed to load candidate: %w", err)
	}
	return c, c.Version, nil
}

// Save writes the candidate only if the stored version still equals expectedVersion
func (r *CandidateRepository) Save(ctx context.Context, c *entity.Candidate, expectedVersion int64) error {
	cols, err := encodeCandidate(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE candidates SET
			name = ?, contact = ?, avatar_url = ?, guardian = ?, bank_account = ?, payment = ?,
			medical_status = ?, hiring_officer_id = ?, customer_type = ?, documents = ?,
			stage = ?, progress = ?, flight_ticket = ?, videos = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	exec := sqlite.ExecutorFor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		c.Name, c.Contact, c.AvatarURL, cols.guardian, c.BankAccount, cols.payment,
		string(c.MedicalStatus), c.HiringOfficerID, string(c.CustomerType), cols.documents,
		string(c.Stage), c.Progress, cols.flightTicket, cols.videos,
		c.UpdatedAt.UTC(),
		c.ID, expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to save candidate", zap.String("candidate_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to save candidate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 1 {
		c.Version = expectedVersion + 1
		return nil
	}

	var stored int64
	err = exec.QueryRowContext(ctx, `SELECT version FROM candidates WHERE id = ?`, c.ID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("candidate %s: %w", c.ID, port.ErrCandidateNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read candidate version: %w", err)
	}
	return fmt.Errorf("candidate %s at version %d, expected %d: %w", c.ID, stored, expectedVersion, port.ErrVersionConflict)
}

// List returns candidates matching the filter ordered by creation time
func (r *CandidateRepository) List(ctx context.Context, filter port.CandidateFilter) ([]*entity.Candidate, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.HiringOfficerID != "" {
		where = append(where, "hiring_officer_id = ?")
		args = append(args, filter.HiringOfficerID)
	}
	if filter.Stage != "" {
		where = append(where, "stage = ?")
		args = append(args, string(filter.Stage))
	}
	if filter.Search != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, filter.Offset)
	}

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list candidates", zap.Error(err))
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	out := []*entity.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type candidateJSON struct {
	guardian     string
	payment      string
	documents    string
	flightTicket sql.NullString
	videos       string
}

func encodeCandidate(c *entity.Candidate) (candidateJSON, error) {
	var out candidateJSON
	var err error

	if out.guardian, err = marshalString(c.Guardian); err != nil {
		return out, fmt.Errorf("failed to encode guardian: %w", err)
	}
	if out.payment, err = marshalString(c.Payment); err != nil {
		return out, fmt.Errorf("failed to encode payment: %w", err)
	}
	if out.documents, err = marshalString(c.Documents); err != nil {
		return out, fmt.Errorf("failed to encode documents: %w", err)
	}
	videos := c.Videos
	if videos == nil {
		videos = []string{}
	}
	if out.videos, err = marshalString(videos); err != nil {
		return out, fmt.Errorf("failed to encode videos: %w", err)
	}
	if c.FlightTicket != nil {
		s, err := marshalString(c.FlightTicket)
		if err != nil {
			return out, fmt.Errorf("failed to encode flight ticket: %w", err)
		}
		out.flightTicket = sql.NullString{String: s, Valid: true}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*entity.Candidate, error) {
	var (
		c                                    entity.Candidate
		guardian, payment, documents, videos string
		medical, customer, stage             string
		flightTicket                         sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Contact, &c.AvatarURL, &guardian, &c.BankAccount, &payment, &medical,
		&c.HiringOfficerID, &customer, &documents, &stage, &c.Progress, &flightTicket,
		&videos, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.MedicalStatus = entity.MedicalStatus(medical)
	c.CustomerType = entity.CustomerType(customer)
	c.Stage = workflow.Stage(stage)

	if err := json.Unmarshal([]byte(guardian), &c.Guardian); err != nil {
		return nil, fmt.Errorf("decode guardian: %w", err)
	}
	if err := json.Unmarshal([]byte(payment), &c.Payment); err != nil {
		return nil, fmt.Errorf("decode payment: %w", err)
	}
	if err := json.Unmarshal([]byte(documents), &c.Documents); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	if err := json.Unmarshal([]byte(videos), &c.Videos); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	if flightTicket.Valid {
		c.FlightTicket = &entity.FlightTicket{}
		if err := json.Unmarshal([]byte(flightTicket.String), c.FlightTicket); err != nil {
			return nil, fmt.Errorf("decode flight ticket: %w", err)
		}
	}
	return &c, nil
}

func marshalString(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify interface compliance
var _ port.CandidateRepository = (*CandidateRepository)(nil)
