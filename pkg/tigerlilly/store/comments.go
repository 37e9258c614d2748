package store

import (
	"context"
	"time"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityComment = "comment"

// CreateComment inserts comment on an existing post. A zero Datetime is
// set to now.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.Datetime.IsZero() {
		comment.Datetime = time.Now()
	}
	if err := s.check(entityComment, comment); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Post{}, entityComment, "post_id", comment.PostID); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(comment).Error, entityComment)
	})
}

func (s *Store) GetComment(ctx context.Context, id uint) (models.Comment, error) {
	var comment models.Comment
	err := first(s.conn(ctx), &comment, entityComment, id)
	return comment, err
}

// ListCommentsForPost returns the post's comments, oldest first.
func (s *Store) ListCommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	if err := first(s.conn(ctx), &models.Post{}, entityPost, postID); err != nil {
		return nil, err
	}
	var comments []models.Comment
	err := s.conn(ctx).Where("post_id = ?", postID).Order("datetime, id").Find(&comments).Error
	return comments, err
}

// ListComments returns every comment, newest first.
func (s *Store) ListComments(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.conn(ctx).Order("datetime DESC, id DESC").Find(&comments).Error
	return comments, err
}

func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.check(entityComment, comment); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Comment{}, entityComment, comment.ID); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.Post{}, entityComment, "post_id", comment.PostID); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(comment).Error, entityComment)
	})
}

func (s *Store) DeleteComment(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "comments", entityComment, &models.Comment{}, id)
	})
}
