package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup yields no row.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation matches every *ConstraintViolation.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ConstraintViolation reports a write rejected by a uniqueness,
// requiredness or referential rule.
type ConstraintViolation struct {
	Entity string
	Fields []string
	Reason string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation on %s(%s): %s", e.Entity, strings.Join(e.Fields, ", "), e.Reason)
}

func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraintViolation
}

func violation(entity, reason string, fields ...string) error {
	return &ConstraintViolation{Entity: entity, Fields: fields, Reason: reason}
}

func notFound(entity string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// translate maps driver errors onto the store taxonomy. uniqueFields names
// the fields of the unique key the write could have collided on.
func translate(err error, entity string, uniqueFields ...string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return violation(entity, "already exists", uniqueFields...)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return violation(entity, "foreign key violated")
	}
	return err
}
