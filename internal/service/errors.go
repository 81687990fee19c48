package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// mapStoreError translates repository errors into API errors for the named
// resource ("department", "employee", "account").
func mapStoreError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(resource)
	}

	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		details := make(map[string]any, len(conflict.Fields))
		for _, field := range conflict.Fields {
			details[field] = []string{fmt.Sprintf("%s with this %s already exists.", resource, field)}
		}
		return apperrors.NewValidationError(apperrors.UniquenessConflict, "uniqueness conflict", details)
	}

	var missing *repository.MissingReferenceError
	if errors.As(err, &missing) {
		return referenceNotFound(missing.Field, missing.ID)
	}
	return apperrors.MapError(err)
}

func notFound(resource string) error {
	return apperrors.NewNotFound(resource, nil)
}

func referenceNotFound(field, id string) error {
	return apperrors.NewValidationError(apperrors.ReferenceNotFound, "referenced record does not exist", map[string]any{
		field: []string{fmt.Sprintf("Invalid pk %q - object does not exist.", id)},
	})
}

// pathID reports whether id is a record identifier in the canonical
// lowercase hyphenated form. URL segments in any other form match nothing.
func pathID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// referenceID normalizes a submitted reference to the stored form. Upper
// case, braced and urn:uuid: spellings name the same record.
func referenceID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
