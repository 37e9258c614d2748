package store

import (
	"context"
	"errors"
	"strings"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityTag = "tag"

func (s *Store) CreateTag(ctx context.Context, tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if err := s.check(entityTag, tag); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Tag{}, entityTag, 0, []string{"name"}, tag.Name); err != nil {
			return err
		}
		return translate(tx.Create(tag).Error, entityTag, "name")
	})
}

func (s *Store) GetTag(ctx context.Context, id uint) (models.Tag, error) {
	var tag models.Tag
	err := first(s.conn(ctx), &tag, entityTag, id)
	return tag, err
}

func (s *Store) GetTagByName(ctx context.Context, name string) (models.Tag, error) {
	var tag models.Tag
	if err := s.conn(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tag, notFound(entityTag, name)
		}
		return tag, err
	}
	return tag, nil
}

// GetOrCreateTag returns the tag called name, creating it if needed.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (models.Tag, error) {
	tag, err := s.GetTagByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return tag, err
	}
	tag = models.Tag{Name: name}
	if err := s.CreateTag(ctx, &tag); err != nil {
		return tag, err
	}
	return tag, nil
}

func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.conn(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (s *Store) UpdateTag(ctx context.Context, tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if err := s.check(entityTag, tag); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Tag{}, entityTag, tag.ID); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Tag{}, entityTag, tag.ID, []string{"name"}, tag.Name); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(tag).Error, entityTag, "name")
	})
}

// DeleteTag deletes the tag and every link to it.
func (s *Store) DeleteTag(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "tags", entityTag, &models.Tag{}, id)
	})
}
