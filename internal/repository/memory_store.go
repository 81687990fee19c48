package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-service/internal/domain"
)

// MemoryStore keeps every record in process memory. A single mutex covers
// each read-validate-write sequence, which gives the same uniqueness and
// reference guarantees the PostgreSQL schema enforces.
type MemoryStore struct {
	mu          sync.RWMutex
	now         func() time.Time
	departments map[string]domain.Department
	employees   map[string]domain.Employee
	accounts    map[string]domain.Account
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:         time.Now,
		departments: make(map[string]domain.Department),
		employees:   make(map[string]domain.Employee),
		accounts:    make(map[string]domain.Account),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Departments exposes the store as a DepartmentRepository.
func (s *MemoryStore) Departments() DepartmentRepository { return memoryDepartments{s} }

// Employees exposes the store as an EmployeeRepository.
func (s *MemoryStore) Employees() EmployeeRepository { return memoryEmployees{s} }

// Accounts exposes the store as an AccountRepository.
func (s *MemoryStore) Accounts() AccountRepository { return memoryAccounts{s} }

type memoryDepartments struct{ s *MemoryStore }

func (r memoryDepartments) Create(_ context.Context, dept *domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.departments {
		if existing.Name == dept.Name {
			return &ConflictError{Fields: []string{"name"}}
		}
	}
	dept.ID = uuid.NewString()
	r.s.departments[dept.ID] = *dept
	return nil
}

func (r memoryDepartments) List(_ context.Context) ([]domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Department, 0, len(r.s.departments))
	for _, dept := range r.s.departments {
		result = append(result, dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r memoryDepartments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	dept, ok := r.s.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &dept, nil
}

func (r memoryDepartments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.departments[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.departments, id)
	for empID, emp := range r.s.employees {
		if emp.DepartmentID == id {
			delete(r.s.employees, empID)
		}
	}
	return nil
}

type memoryEmployees struct{ s *MemoryStore }

func (r memoryEmployees) Create(_ context.Context, emp *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.departments[emp.DepartmentID]; !ok {
		return &MissingReferenceError{Field: "department", ID: emp.DepartmentID}
	}
	if err := r.checkUnique("", emp.Email, emp.Mobile); err != nil {
		return err
	}

	now := r.s.now().UTC()
	emp.ID = uuid.NewString()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	emp.DateJoined = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	r.s.employees[emp.ID] = *emp
	return nil
}

func (r memoryEmployees) List(_ context.Context) ([]domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Employee, 0, len(r.s.employees))
	for _, emp := range r.s.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r memoryEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	emp, ok := r.s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &emp, nil
}

func (r memoryEmployees) Update(_ context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	changes.Apply(&current)

	if _, ok := r.s.departments[current.DepartmentID]; !ok {
		return nil, &MissingReferenceError{Field: "department", ID: current.DepartmentID}
	}
	if err := r.checkUnique(id, current.Email, current.Mobile); err != nil {
		return nil, err
	}

	current.UpdatedAt = r.s.now().UTC()
	r.s.employees[id] = current
	return &current, nil
}

func (r memoryEmployees) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.employees, id)
	return nil
}

// checkUnique must be called with the write lock held.
func (r memoryEmployees) checkUnique(excludeID, email, mobile string) error {
	var emailTaken, mobileTaken bool
	for id, emp := range r.s.employees {
		if id == excludeID {
			continue
		}
		emailTaken = emailTaken || emp.Email == email
		mobileTaken = mobileTaken || emp.Mobile == mobile
	}
	return conflictFor(emailTaken, mobileTaken)
}

type memoryAccounts struct{ s *MemoryStore }

func (r memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.accounts {
		if existing.Username == account.Username {
			return &ConflictError{Fields: []string{"username"}}
		}
	}
	now := r.s.now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.s.accounts[account.ID] = *account
	return nil
}

func (r memoryAccounts) Update(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.s.accounts {
		if id != account.ID && existing.Username == account.Username {
			return &ConflictError{Fields: []string{"username"}}
		}
	}
	account.UpdatedAt = r.s.now().UTC()
	r.s.accounts[account.ID] = *account
	return nil
}

func (r memoryAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	account, ok := r.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r memoryAccounts) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, account := range r.s.accounts {
		if account.Username == username {
			found := account
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
