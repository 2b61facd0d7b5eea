package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// EmployeeStore keeps staff accounts in memory
type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]entity.Employee
	byEmail   map[string]string
}

var _ port.EmployeeRepository = (*EmployeeStore)(nil)

// NewEmployeeStore creates an empty store
func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{
		employees: make(map[string]entity.Employee),
		byEmail:   make(map[string]string),
	}
}

// Create stores a new employee; ids and emails are unique
func (s *EmployeeStore) Create(_ context.Context, e *entity.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(e.Email)
	if _, exists := s.employees[e.ID]; exists {
		return fmt.Errorf("employee %s: %w", e.ID, port.ErrDuplicate)
	}
	if _, exists := s.byEmail[email]; exists {
		return fmt.Errorf("employee email %s: %w", e.Email, port.ErrDuplicate)
	}
	s.employees[e.ID] = *e
	s.byEmail[email] = e.ID
	return nil
}

// GetByID returns the employee with the given id
func (s *EmployeeStore) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", id, port.ErrEmployeeNotFound)
	}
	return &e, nil
}

// GetByEmail looks an employee up by case-insensitive email
func (s *EmployeeStore) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("employee email %s: %w", email, port.ErrEmployeeNotFound)
	}
	return s.GetByID(ctx, id)
}

// List returns all employees ordered by id
func (s *EmployeeStore) List(_ context.Context) ([]*entity.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
