package store

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the storage boundary for every magazine entity. Uniqueness,
// requiredness and deletion policies are enforced here.
type Store struct {
	db       *gorm.DB
	validate *validator.Validate
}

// New creates a store over db.
func New(db *gorm.DB) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Store{db: db, validate: v}
}

// DB returns the underlying handle, for read queries outside the store.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a store bound to one transaction. Store
// operations called inside it nest as savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, validate: s.validate})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) check(entity string, v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	tags := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		tags = append(tags, fe.Tag())
	}
	return violation(entity, "failed "+strings.Join(tags, ", "), fields...)
}

// ensureUnique fails when another row of model already has the given
// column values. excludeID skips the row being updated.
func ensureUnique(tx *gorm.DB, model interface{}, entity string, excludeID uint, columns []string, values ...interface{}) error {
	q := tx.Model(model)
	for i, col := range columns {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: values[i]})
	}
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return violation(entity, "already exists", columns...)
	}
	return nil
}

// ensureExists fails with a violation on field when id has no row.
func ensureExists(tx *gorm.DB, model interface{}, entity, field string, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return violation(entity, "references a missing row", field)
	}
	return nil
}

// deleteRow applies the deletion policies of table to the rows referencing
// id, then deletes the row itself. Must run inside a transaction.
func deleteRow(tx *gorm.DB, table, entity string, model interface{}, id uint) error {
	for _, rel := range models.PoliciesFor(table) {
		where := clause.Eq{Column: clause.Column{Name: rel.Column}, Value: id}
		switch rel.Policy {
		case models.Restrict:
			var count int64
			if err := tx.Table(rel.Child).Where(where).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return violation(entity, "still referenced by "+rel.Child, rel.Column)
			}
		case models.SetNull:
			if err := tx.Exec("UPDATE ? SET ? = NULL WHERE ? = ?",
				clause.Table{Name: rel.Child}, clause.Column{Name: rel.Column},
				clause.Column{Name: rel.Column}, id).Error; err != nil {
				return err
			}
		case models.Cascade:
			if err := tx.Exec("DELETE FROM ? WHERE ? = ?",
				clause.Table{Name: rel.Child}, clause.Column{Name: rel.Column}, id).Error; err != nil {
				return err
			}
		}
	}

	res := tx.Delete(model, id)
	if res.Error != nil {
		return translate(res.Error, entity)
	}
	if res.RowsAffected == 0 {
		return notFound(entity, id)
	}
	return nil
}

// first loads the row with id into dest.
func first(tx *gorm.DB, dest interface{}, entity string, id uint) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(entity, id)
		}
		return err
	}
	return nil
}
