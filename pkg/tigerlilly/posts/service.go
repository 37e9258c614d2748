// Package posts implements the read side of the magazine: issue listings,
// single posts and the filtered lists behind the public API.
package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
	"gorm.io/gorm"
)

// Service answers read queries over posts.
type Service struct {
	db *gorm.DB
}

// NewService creates a new posts service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) withByline(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Alias").Preload("Author").Preload("Tags")
}

// ListForIssue returns the issue's posts by position, unpositioned posts
// last. Article text longer than the preview limit is folded in the
// returned values only.
func (s *Service) ListForIssue(ctx context.Context, issueID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.withByline(ctx).
		Where("issue_id = ?", issueID).
		Order("issue_position IS NULL").
		Order("issue_position").
		Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return previews(posts), nil
}

// Get returns the full post.
func (s *Service) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	if err := s.withByline(ctx).Preload("Issue").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
		}
		return post, err
	}
	return post, nil
}

// GetByTitle returns the first post with exactly this title.
func (s *Service) GetByTitle(ctx context.Context, title string) (models.Post, error) {
	var post models.Post
	if err := s.withByline(ctx).Preload("Issue").Where("title = ?", title).Order("id").First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, fmt.Errorf("post %q: %w", title, store.ErrNotFound)
		}
		return post, err
	}
	return post, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.withByline(ctx).Order("id DESC").Find(&posts).Error
	return previews(posts), err
}

// ListByTag returns posts carrying the named tag, newest first.
func (s *Service) ListByTag(ctx context.Context, tag string) ([]models.Post, error) {
	var posts []models.Post
	err := s.withByline(ctx).
		Joins("JOIN post_tag_links ON post_tag_links.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tag_links.tag_id").
		Where("tags.name = ?", tag).
		Order("posts.id DESC").
		Find(&posts).Error
	return previews(posts), err
}

// ListByAuthor returns posts written by the author, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.withByline(ctx).Where("author_id = ?", authorID).Order("id DESC").Find(&posts).Error
	return previews(posts), err
}

// ListWithComments returns posts that have at least one comment.
func (s *Service) ListWithComments(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.withByline(ctx).
		Where("id IN (?)", s.db.Model(&models.Comment{}).Distinct("post_id")).
		Order("id DESC").
		Find(&posts).Error
	return previews(posts), err
}

func previews(posts []models.Post) []models.Post {
	for i := range posts {
		posts[i].ArticleText = presentation.Preview(posts[i].ArticleText)
	}
	return posts
}
