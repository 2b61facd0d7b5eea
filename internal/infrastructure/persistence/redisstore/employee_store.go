package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// employeeRecord is the stored form; the credential hash is not part of the API JSON
type employeeRecord struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Role           entity.Role `json:"role"`
	Email          string      `json:"email"`
	CredentialHash string      `json:"credentialHash"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// EmployeeStore implements port.EmployeeRepository on Redis
type EmployeeStore struct {
	client *Client
}

var _ port.EmployeeRepository = (*EmployeeStore)(nil)

// NewEmployeeStore creates an employee store
func NewEmployeeStore(client *Client) *EmployeeStore {
	return &EmployeeStore{client: client}
}

// Create stores an employee; ids and emails are unique
func (s *EmployeeStore) Create(ctx context.Context, e *entity.Employee) error {
	email := strings.ToLower(e.Email)
	data, err := json.Marshal(employeeRecord{
		ID:             e.ID,
		Name:           e.Name,
		Role:           e.Role,
		Email:          email,
		CredentialHash: e.CredentialHash,
		CreatedAt:      e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode employee: %w", err)
	}

	idKey, emailKey := s.idKey(e.ID), s.emailKey(email)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, idKey, emailKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("employee %s <%s>: %w", e.ID, email, port.ErrDuplicate)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, idKey, data, 0)
			pipe.Set(ctx, emailKey, e.ID, 0)
			pipe.SAdd(ctx, s.indexKey(), e.ID)
			return nil
		})
		return err
	}, idKey, emailKey)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("employee %s: %w", e.ID, port.ErrDuplicate)
	}
	return err
}

// GetByID returns the employee with the given id
func (s *EmployeeStore) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	raw, err := s.client.Get(ctx, s.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("employee %s: %w", id, port.ErrEmployeeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	return decodeEmployee(raw)
}

// GetByEmail looks an employee up by case-insensitive email
func (s *EmployeeStore) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	id, err := s.client.Get(ctx, s.emailKey(strings.ToLower(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("employee email %s: %w", email, port.ErrEmployeeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns all employees ordered by id
func (s *EmployeeStore) List(ctx context.Context) ([]*entity.Employee, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list employee ids: %w", err)
	}
	sort.Strings(ids)

	out := make([]*entity.Employee, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetByID(ctx, id)
		if errors.Is(err, port.ErrEmployeeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeEmployee(raw []byte) (*entity.Employee, error) {
	var rec employeeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode employee: %w", err)
	}
	return &entity.Employee{
		ID:             rec.ID,
		Name:           rec.Name,
		Role:           rec.Role,
		Email:          rec.Email,
		CredentialHash: rec.CredentialHash,
		CreatedAt:      rec.CreatedAt,
	}, nil
}

func (s *EmployeeStore) idKey(id string) string {
	return s.client.key("employee", id)
}

func (s *EmployeeStore) emailKey(email string) string {
	return s.client.key("employee", "email", email)
}

func (s *EmployeeStore) indexKey() string {
	return s.client.key("employees")
}
