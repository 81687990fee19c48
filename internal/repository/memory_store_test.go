package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/domain"
)

func newEmployee(deptID, email, mobile string) *domain.Employee {
	return &domain.Employee{
		Name:         "Ann",
		Email:        email,
		Mobile:       mobile,
		DepartmentID: deptID,
		Designation:  "SWE",
		Salary:       decimal.RequireFromString("1000.00"),
		IsActive:     true,
	}
}

func seedDepartment(t *testing.T, store *MemoryStore, name string) domain.Department {
	t.Helper()
	dept := domain.Department{Name: name}
	require.NoError(t, store.Departments().Create(context.Background(), &dept))
	return dept
}

func TestMemoryDepartments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	eng := seedDepartment(t, store, "Engineering")
	seedDepartment(t, store, "Accounting")
	assert.NotEmpty(t, eng.ID)

	dup := domain.Department{Name: "Engineering"}
	err := store.Departments().Create(ctx, &dup)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"name"}, conflict.Fields)

	list, err := store.Departments().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Accounting", list[0].Name)
	assert.Equal(t, "Engineering", list[1].Name)

	got, err := store.Departments().GetByID(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, eng, *got)

	_, err = store.Departments().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEmployeeCreateChecksReference(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Employees().Create(ctx, newEmployee("nope", "ann@x.com", "1"))
	var missing *MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "department", missing.Field)

	list, err := store.Employees().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryEmployeeUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	dept := seedDepartment(t, store, "Engineering")

	first := newEmployee(dept.ID, "ann@x.com", "1")
	require.NoError(t, store.Employees().Create(ctx, first))

	err := store.Employees().Create(ctx, newEmployee(dept.ID, "ann@x.com", "1"))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"email", "mobile"}, conflict.Fields)

	second := newEmployee(dept.ID, "bob@x.com", "2")
	require.NoError(t, store.Employees().Create(ctx, second))

	// Resubmitting its own values is not a conflict.
	email := "ann@x.com"
	_, err = store.Employees().Update(ctx, first.ID, domain.EmployeeChanges{Email: &email})
	require.NoError(t, err)

	_, err = store.Employees().Update(ctx, second.ID, domain.EmployeeChanges{Email: &email})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"email"}, conflict.Fields)
}

func TestMemoryEmployeeUpdateAdvancesTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	dept := seedDepartment(t, store, "Engineering")

	emp := newEmployee(dept.ID, "ann@x.com", "1")
	require.NoError(t, store.Employees().Create(ctx, emp))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), emp.DateJoined)

	designation := "Lead"
	updated, err := store.Employees().Update(ctx, emp.ID, domain.EmployeeChanges{Designation: &designation})
	require.NoError(t, err)

	assert.Equal(t, "Lead", updated.Designation)
	assert.Equal(t, emp.Name, updated.Name)
	assert.Equal(t, emp.CreatedAt, updated.CreatedAt)
	assert.Equal(t, emp.DateJoined, updated.DateJoined)
	assert.True(t, updated.UpdatedAt.After(emp.UpdatedAt))

	_, err = store.Employees().Update(ctx, "missing", domain.EmployeeChanges{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDepartmentDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	eng := seedDepartment(t, store, "Engineering")
	ops := seedDepartment(t, store, "Operations")

	require.NoError(t, store.Employees().Create(ctx, newEmployee(eng.ID, "a@x.com", "1")))
	require.NoError(t, store.Employees().Create(ctx, newEmployee(eng.ID, "b@x.com", "2")))
	kept := newEmployee(ops.ID, "c@x.com", "3")
	require.NoError(t, store.Employees().Create(ctx, kept))

	require.NoError(t, store.Departments().Delete(ctx, eng.ID))

	list, err := store.Employees().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	assert.ErrorIs(t, store.Departments().Delete(ctx, eng.ID), ErrNotFound)
}

func TestMemoryEmployeeDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	dept := seedDepartment(t, store, "Engineering")
	emp := newEmployee(dept.ID, "a@x.com", "1")
	require.NoError(t, store.Employees().Create(ctx, emp))

	require.NoError(t, store.Employees().Delete(ctx, emp.ID))
	assert.ErrorIs(t, store.Employees().Delete(ctx, emp.ID), ErrNotFound)
}

func TestMemoryConcurrentDuplicateCreates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	dept := seedDepartment(t, store, "Engineering")

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Employees().Create(ctx, newEmployee(dept.ID, "same@x.com", fmt.Sprintf("%d", i)))
			mu.Lock()
			defer mu.Unlock()
			var conflict *ConflictError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &conflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestMemoryAccounts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	admin := &domain.Account{Username: "admin", PasswordHash: "x", IsStaff: true, IsActive: true}
	require.NoError(t, store.Accounts().Create(ctx, admin))

	err := store.Accounts().Create(ctx, &domain.Account{Username: "admin"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	got, err := store.Accounts().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	got.IsStaff = false
	require.NoError(t, store.Accounts().Update(ctx, got))

	reloaded, err := store.Accounts().GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsStaff)

	_, err = store.Accounts().GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{
			name: "no rows",
			err:  pgx.ErrNoRows,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "unique email",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_email_key"},
			check: func(t *testing.T, err error) {
				var conflict *ConflictError
				require.ErrorAs(t, err, &conflict)
				assert.Equal(t, []string{"email"}, conflict.Fields)
			},
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "employees_department_id_fkey"},
			check: func(t *testing.T, err error) {
				var missing *MissingReferenceError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "department", missing.Field)
			},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mapPgError(tt.err))
		})
	}
	assert.NoError(t, mapPgError(nil))
}

func TestWithReferenceIDFillsDatabaseViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "employees_department_id_fkey"}
	err := withReferenceID(mapPgError(fkErr), "6f9619ff-8b86-d011-b42d-00cf4fc964ff")

	var missing *MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "department", missing.Field)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", missing.ID)

	// An id reported by the store itself is kept.
	err = withReferenceID(&MissingReferenceError{Field: "department", ID: "kept"}, "other")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "kept", missing.ID)

	assert.NoError(t, withReferenceID(nil, "x"))
	assert.ErrorIs(t, withReferenceID(ErrNotFound, "x"), ErrNotFound)
}
