package port

import (
	"context"
	"errors"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

var (
	// ErrCandidateNotFound is returned when no candidate has the requested id
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrEmployeeNotFound is returned when no employee has the requested id or email
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrVersionConflict is returned by Save when the stored version differs from the expected one
	ErrVersionConflict = errors.New("candidate version conflict")

	// ErrDuplicate is returned when creating a record whose id or unique key already exists
	ErrDuplicate = errors.New("record already exists")
)

// CandidateFilter narrows a candidate listing. Zero values match everything.
type CandidateFilter struct {
	HiringOfficerID string
	Stage           workflow.Stage
	// Search matches a case-insensitive substring of the candidate name
	Search string
	Limit  int
	Offset int
}

// CandidateRepository is a versioned key-value store of candidates.
// Implementations must make Save a compare-and-swap on the version.
type CandidateRepository interface {
	// Create stores a new candidate at version 1
	Create(ctx context.Context, c *entity.Candidate) error

	// Load returns the persisted candidate and its version
	Load(ctx context.Context, id string) (*entity.Candidate, int64, error)

	// Save replaces the candidate if the stored version equals expectedVersion and
	// sets c.Version to the new version. Returns ErrVersionConflict otherwise.
	Save(ctx context.Context, c *entity.Candidate, expectedVersion int64) error

	// List returns candidates matching the filter ordered by creation time
	List(ctx context.Context, filter CandidateFilter) ([]*entity.Candidate, error)
}

// EmployeeRepository persists staff accounts
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	List(ctx context.Context) ([]*entity.Employee, error)
}

// HistoryRepository persists stage transition audit records
type HistoryRepository interface {
	Create(ctx context.Context, h *entity.StageHistory) error
	GetByCandidateID(ctx context.Context, candidateID string) ([]*entity.StageHistory, error)
}

// TransactionManager runs fn in one storage transaction. The context passed
// to fn carries the transaction for repositories that support it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTransactionManager runs fn directly. Writes made by fn are not grouped,
// so a failure part way leaves the earlier writes in place.
type NoopTransactionManager struct{}

// WithTransaction calls fn with ctx
func (NoopTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
