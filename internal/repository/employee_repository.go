package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeRepository handles persistence for employees.
//
// Create and Update check the department reference and the email/mobile
// uniqueness inside the same atomic unit as the write.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

const employeeColumns = `id, name, email, mobile, department_id, designation, salary::text,
        date_joined, is_active, created_at, updated_at`

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, email, mobile, department_id, designation, salary, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8)
        RETURNING date_joined, created_at, updated_at`

	id := uuid.NewString()
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockDepartment(ctx, tx, emp.DepartmentID); err != nil {
			return err
		}
		if err := checkEmployeeUnique(ctx, tx, nil, emp.Email, emp.Mobile); err != nil {
			return err
		}
		return tx.QueryRow(ctx, query,
			id,
			emp.Name,
			emp.Email,
			emp.Mobile,
			emp.DepartmentID,
			emp.Designation,
			emp.Salary.String(),
			emp.IsActive,
		).Scan(&emp.DateJoined, &emp.CreatedAt, &emp.UpdatedAt)
	})
	if err != nil {
		return withReferenceID(mapPgError(err), emp.DepartmentID)
	}
	emp.ID = id
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	emp, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error) {
	const query = `
        UPDATE employees
        SET name=$1, email=$2, mobile=$3, department_id=$4, designation=$5, salary=$6::numeric, is_active=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	var (
		updated      *domain.Employee
		departmentID string
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanEmployee(tx.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		before := *current
		changes.Apply(current)
		departmentID = current.DepartmentID

		if current.DepartmentID != before.DepartmentID {
			if err := lockDepartment(ctx, tx, current.DepartmentID); err != nil {
				return err
			}
		}
		if current.Email != before.Email || current.Mobile != before.Mobile {
			if err := checkEmployeeUnique(ctx, tx, &id, current.Email, current.Mobile); err != nil {
				return err
			}
		}

		if err := tx.QueryRow(ctx, query,
			current.Name,
			current.Email,
			current.Mobile,
			current.DepartmentID,
			current.Designation,
			current.Salary.String(),
			current.IsActive,
			id,
		).Scan(&current.UpdatedAt); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, withReferenceID(mapPgError(err), departmentID)
	}
	return updated, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// lockDepartment holds a share lock on the department so a concurrent
// delete cannot orphan the employee being written.
func lockDepartment(ctx context.Context, tx pgx.Tx, departmentID string) error {
	var exists int
	err := tx.QueryRow(ctx, `SELECT 1 FROM departments WHERE id=$1 FOR SHARE`, departmentID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return &MissingReferenceError{Field: "department", ID: departmentID}
	}
	return err
}

func checkEmployeeUnique(ctx context.Context, tx pgx.Tx, excludeID *string, email, mobile string) error {
	const query = `
        SELECT email, mobile FROM employees
        WHERE (email=$1 OR mobile=$2) AND ($3::uuid IS NULL OR id <> $3::uuid)`
	rows, err := tx.Query(ctx, query, email, mobile, excludeID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var emailTaken, mobileTaken bool
	for rows.Next() {
		var gotEmail, gotMobile string
		if err := rows.Scan(&gotEmail, &gotMobile); err != nil {
			return err
		}
		emailTaken = emailTaken || gotEmail == email
		mobileTaken = mobileTaken || gotMobile == mobile
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return conflictFor(emailTaken, mobileTaken)
}

func conflictFor(emailTaken, mobileTaken bool) error {
	var fields []string
	if emailTaken {
		fields = append(fields, "email")
	}
	if mobileTaken {
		fields = append(fields, "mobile")
	}
	if len(fields) == 0 {
		return nil
	}
	return &ConflictError{Fields: fields}
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		emp    domain.Employee
		salary string
	)
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Mobile,
		&emp.DepartmentID,
		&emp.Designation,
		&salary,
		&emp.DateJoined,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("parse salary %q: %w", salary, err)
	}
	emp.Salary = parsed
	return &emp, nil
}
