package store

import (
	"context"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityAuthor = "author"

var authorKey = []string{"last", "first", "email"}

func (s *Store) CreateAuthor(ctx context.Context, author *models.Author) error {
	if err := s.check(entityAuthor, author); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Author{}, entityAuthor, 0, authorKey, author.Last, author.First, author.Email); err != nil {
			return err
		}
		return translate(tx.Create(author).Error, entityAuthor, authorKey...)
	})
}

func (s *Store) GetAuthor(ctx context.Context, id uint) (models.Author, error) {
	var author models.Author
	err := first(s.conn(ctx), &author, entityAuthor, id)
	return author, err
}

// FindAuthorByEmail returns the lowest-id author with email. Email alone
// is not unique, only the (last, first, email) triple is.
func (s *Store) FindAuthorByEmail(ctx context.Context, email string) (models.Author, error) {
	var author models.Author
	err := s.conn(ctx).Where("email = ?", email).Order("id").First(&author).Error
	if err != nil {
		return author, translate(err, entityAuthor)
	}
	return author, nil
}

func (s *Store) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	err := s.conn(ctx).Order("last, first").Find(&authors).Error
	return authors, err
}

func (s *Store) UpdateAuthor(ctx context.Context, author *models.Author) error {
	if err := s.check(entityAuthor, author); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Author{}, entityAuthor, author.ID); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Author{}, entityAuthor, author.ID, authorKey, author.Last, author.First, author.Email); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(author).Error, entityAuthor, authorKey...)
	})
}

// DeleteAuthor refuses to delete an author that any post still references.
func (s *Store) DeleteAuthor(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "authors", entityAuthor, &models.Author{}, id)
	})
}
