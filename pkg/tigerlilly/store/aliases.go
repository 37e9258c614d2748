package store

import (
	"context"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityAlias = "alias"

var aliasKey = []string{"alias_last", "alias_first"}

func (s *Store) CreateAlias(ctx context.Context, alias *models.Alias) error {
	if err := s.check(entityAlias, alias); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Alias{}, entityAlias, 0, aliasKey, alias.AliasLast, alias.AliasFirst); err != nil {
			return err
		}
		return translate(tx.Create(alias).Error, entityAlias, aliasKey...)
	})
}

func (s *Store) GetAlias(ctx context.Context, id uint) (models.Alias, error) {
	var alias models.Alias
	err := first(s.conn(ctx), &alias, entityAlias, id)
	return alias, err
}

// FindAliasByName looks an alias up by its byline parts.
func (s *Store) FindAliasByName(ctx context.Context, first, last string) (models.Alias, error) {
	var alias models.Alias
	err := s.conn(ctx).Where("alias_first = ? AND alias_last = ?", first, last).First(&alias).Error
	if err != nil {
		return alias, translate(err, entityAlias)
	}
	return alias, nil
}

func (s *Store) ListAliases(ctx context.Context) ([]models.Alias, error) {
	var aliases []models.Alias
	err := s.conn(ctx).Order("alias_last, alias_first").Find(&aliases).Error
	return aliases, err
}

func (s *Store) UpdateAlias(ctx context.Context, alias *models.Alias) error {
	if err := s.check(entityAlias, alias); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Alias{}, entityAlias, alias.ID); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Alias{}, entityAlias, alias.ID, aliasKey, alias.AliasLast, alias.AliasFirst); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(alias).Error, entityAlias, aliasKey...)
	})
}

// DeleteAlias deletes the alias and clears it from every post byline.
func (s *Store) DeleteAlias(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "aliases", entityAlias, &models.Alias{}, id)
	})
}
