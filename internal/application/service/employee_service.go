package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

const (
	// SeedAdminID is the id of the administrator created on first start
	SeedAdminID = "emp_admin_001"
	// SeedAdminEmail is the login of the seeded administrator
	SeedAdminEmail = "admin@recruitsys.com"
)

// EmployeeService manages staff accounts and resolves request actors
type EmployeeService interface {
	SeedAdmin(ctx context.Context, password string) (*entity.Employee, error)
	CreateEmployee(ctx context.Context, actor entity.Actor, in CreateEmployeeInput) (*entity.Employee, error)
	GetEmployee(ctx context.Context, id string) (*entity.Employee, error)
	ListEmployees(ctx context.Context) ([]*entity.Employee, error)
	ResolveActor(ctx context.Context, id string, role entity.Role) (entity.Actor, error)
	VerifyCredential(ctx context.Context, email, password string) (entity.Actor, error)
}

// CreateEmployeeInput is the staff registration form
type CreateEmployeeInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
	Password string      `json:"password"`
}

type employeeServiceImpl struct {
	employees port.EmployeeRepository
	logger    Logger
	cost      int
}

// NewEmployeeService creates a new EmployeeService. cost is the bcrypt work
// factor; zero selects bcrypt.DefaultCost.
func NewEmployeeService(employees port.EmployeeRepository, logger Logger, cost int) EmployeeService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &employeeServiceImpl{
		employees: employees,
		logger:    logger,
		cost:      cost,
	}
}

// SeedAdmin creates the initial administrator unless it already exists
func (s *employeeServiceImpl) SeedAdmin(ctx context.Context, password string) (*entity.Employee, error) {
	existing, err := s.employees.GetByID(ctx, SeedAdminID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, port.ErrEmployeeNotFound) {
		return nil, fmt.Errorf("lookup seed admin: %w", err)
	}

	emp, err := s.newEmployee(SeedAdminID, CreateEmployeeInput{
		Name:     "Administrator",
		Email:    SeedAdminEmail,
		Role:     entity.RoleAdmin,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("create seed admin: %w", err)
	}

	s.logger.Info("Seeded admin employee", "employee_id", emp.ID, "email", emp.Email)
	return emp, nil
}

// CreateEmployee registers a staff member. Only admins may do this.
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, actor entity.Actor, in CreateEmployeeInput) (*entity.Employee, error) {
	if !actor.IsAdmin() {
		return nil, workflow.NewError(workflow.KindAuthorizationDenied, "", errors.New("only admins may create employees"))
	}

	emp, err := s.newEmployee("emp_"+uuid.NewString(), in)
	if err != nil {
		return nil, workflow.NewError(workflow.KindValidation, "", err)
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, workflow.NewError(workflow.KindValidation, "", fmt.Errorf("email %s already registered: %w", emp.Email, err))
		}
		s.logger.Error("Failed to create employee", "error", err, "email", emp.Email)
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}

	s.logger.Info("Employee created", "employee_id", emp.ID, "role", string(emp.Role), "actor_id", actor.ID)
	return emp, nil
}

// GetEmployee retrieves an employee by id
func (s *employeeServiceImpl) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, port.ErrEmployeeNotFound) {
			return nil, workflow.NewError(workflow.KindNotFound, "", err)
		}
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}
	return emp, nil
}

// ListEmployees returns every employee
func (s *employeeServiceImpl) ListEmployees(ctx context.Context) ([]*entity.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list employees", "error", err)
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}
	return list, nil
}

// ResolveActor checks an asserted identity against the employee store.
// An unknown id or a role that differs from the stored one is denied.
func (s *employeeServiceImpl) ResolveActor(ctx context.Context, id string, role entity.Role) (entity.Actor, error) {
	if id == "" {
		return entity.Actor{}, workflow.NewError(workflow.KindAuthorizationDenied, "", errors.New("actor id is required"))
	}

	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, port.ErrEmployeeNotFound) {
			return entity.Actor{}, workflow.NewError(workflow.KindAuthorizationDenied, "", fmt.Errorf("unknown actor %s", id))
		}
		return entity.Actor{}, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}

	if role != "" && emp.Role != role {
		return entity.Actor{}, workflow.NewError(workflow.KindAuthorizationDenied, "",
			fmt.Errorf("actor %s does not hold role %q", id, role))
	}

	return entity.Actor{ID: emp.ID, Role: emp.Role}, nil
}

// VerifyCredential checks a login against the stored bcrypt hash
func (s *employeeServiceImpl) VerifyCredential(ctx context.Context, email, password string) (entity.Actor, error) {
	denied := workflow.NewError(workflow.KindAuthorizationDenied, "", errors.New("invalid email or password"))

	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, port.ErrEmployeeNotFound) {
			return entity.Actor{}, denied
		}
		return entity.Actor{}, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.CredentialHash), []byte(password)); err != nil {
		return entity.Actor{}, denied
	}
	return entity.Actor{ID: emp.ID, Role: emp.Role}, nil
}

func (s *employeeServiceImpl) newEmployee(id string, in CreateEmployeeInput) (*entity.Employee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email %q", in.Email)
	}
	if !in.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	return &entity.Employee{
		ID:             id,
		Name:           name,
		Role:           in.Role,
		Email:          strings.ToLower(addr.Address),
		CredentialHash: string(hash),
		CreatedAt:      time.Now(),
	}, nil
}
