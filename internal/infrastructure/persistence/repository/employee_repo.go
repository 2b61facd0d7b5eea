package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/sqlite"
)

// EmployeeRepository implements port.EmployeeRepository
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an employee; ids and emails are unique
func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO employees (id, name, role, email, credential_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		e.ID, e.Name, string(e.Role), strings.ToLower(e.Email), e.CredentialHash, e.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.String("employee_id", e.ID), zap.Error(err))
		return mapConstraint(err, "employee "+e.ID)
	}
	return nil
}

// GetByID retrieves an employee by id
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves an employee by case-insensitive email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return r.getOne(ctx, `WHERE email = ?`, strings.ToLower(email))
}

// List returns all employees ordered by id
func (r *EmployeeRepository) List(ctx context.Context) ([]*entity.Employee, error) {
	query := `SELECT id, name, role, email, credential_hash, created_at FROM employees ORDER BY id`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list employees", zap.Error(err))
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	out := []*entity.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) getOne(ctx context.Context, where string, arg string) (*entity.Employee, error) {
	query := `SELECT id, name, role, email, credential_hash, created_at FROM employees ` + where

	e, err := scanEmployee(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %s: %w", arg, port.ErrEmployeeNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.String("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var (
		e    entity.Employee
		role string
	)
	if err := row.Scan(&e.ID, &e.Name, &role, &e.Email, &e.CredentialHash, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Role = entity.Role(role)
	return &e, nil
}

// Verify interface compliance
var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
