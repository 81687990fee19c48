package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no record exists for the given key.
var ErrNotFound = errors.New("record not found")

// ConflictError reports unique columns already taken by another record.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", strings.Join(e.Fields, ", "))
}

// MissingReferenceError reports a foreign key pointing at nothing.
type MissingReferenceError struct {
	Field string
	ID    string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Field, e.ID)
}

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

var uniqueConstraintFields = map[string]string{
	"departments_name_key":  "name",
	"employees_email_key":   "email",
	"employees_mobile_key":  "mobile",
	"accounts_username_key": "username",
}

// mapPgError turns driver errors into the package's typed errors.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			field, ok := uniqueConstraintFields[pgErr.ConstraintName]
			if !ok {
				field = "non_field_errors"
			}
			return &ConflictError{Fields: []string{field}}
		case foreignKeyViolationCode:
			return &MissingReferenceError{Field: "department"}
		}
	}
	return err
}

// withReferenceID fills in the id the database leaves out of a foreign key
// violation.
func withReferenceID(err error, id string) error {
	var missing *MissingReferenceError
	if errors.As(err, &missing) && missing.ID == "" {
		missing.ID = id
	}
	return err
}
