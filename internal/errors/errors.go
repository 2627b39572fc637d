// internal/errors/errors.go
package appErrors

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ValidationError reports required fields that were missing or empty.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.MissingFields, ", ")
}

// ConflictError reports a write that would break a uniqueness constraint.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// NotFoundError reports that no row exists for the given id.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// ReferenceError reports a foreign reference that does not resolve.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s does not reference an existing record", e.Field)
}

// StorageError wraps any other failure coming from the database.
type StorageError struct {
	Detail string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error: " + e.Detail
	}
	return fmt.Sprintf("storage error: %s: %v", e.Detail, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Helper constructors

func NewValidation(fields ...string) error {
	return &ValidationError{MissingFields: fields}
}

func NewNotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewStorage(detail string, err error) error {
	return &StorageError{Detail: detail, Err: err}
}

// FromStorage classifies an error returned by the driver. Constraint
// violations become ConflictError or ReferenceError; everything else is a
// StorageError annotated with detail. A nil err stays nil.
func FromStorage(detail string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return &ConflictError{Field: constraintField(pqErr, "phone_number")}
		case "foreign_key_violation":
			return &ReferenceError{Field: constraintField(pqErr, "customer_id")}
		}
	}

	return NewStorage(detail, err)
}

// constraintField picks the offending column. Postgres only fills Column for
// some violations, so fall back to the "<table>_<column>_key|fkey" naming.
func constraintField(e *pq.Error, fallback string) string {
	if e.Column != "" {
		return e.Column
	}
	if e.Table == "" || !strings.HasPrefix(e.Constraint, e.Table+"_") {
		return fallback
	}
	name := strings.TrimPrefix(e.Constraint, e.Table+"_")
	name = strings.TrimSuffix(name, "_fkey")
	name = strings.TrimSuffix(name, "_key")
	if name == "" {
		return fallback
	}
	return name
}

// IsNoRows reports whether err is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
