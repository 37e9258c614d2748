package store

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityPost = "post"

var positionKey = []string{"issue_id", "issue_position"}

// checkPostRefs validates post and the rows it references.
func (s *Store) checkPostRefs(tx *gorm.DB, post *models.Post) error {
	if strings.TrimSpace(post.ArticleText) == "" {
		return violation(entityPost, "must not be blank", "article_text")
	}
	if post.AliasID != nil {
		if err := ensureExists(tx, &models.Alias{}, entityPost, "alias_id", *post.AliasID); err != nil {
			return err
		}
	}
	if post.AuthorID != nil {
		if err := ensureExists(tx, &models.Author{}, entityPost, "author_id", *post.AuthorID); err != nil {
			return err
		}
	}
	if post.IssueID != nil {
		if err := ensureExists(tx, &models.Issue{}, entityPost, "issue_id", *post.IssueID); err != nil {
			return err
		}
		if post.IssuePosition != nil {
			if err := ensureUnique(tx, &models.Post{}, entityPost, post.ID, positionKey, *post.IssueID, *post.IssuePosition); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreatePost inserts post. Any tags set on post are linked by id and must exist.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.check(entityPost, post); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkPostRefs(tx, post); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return translate(err, entityPost, positionKey...)
		}
		if len(post.Tags) > 0 {
			return replaceTags(tx, post.ID, lo.Map(post.Tags, func(t models.Tag, _ int) uint { return t.ID }))
		}
		return nil
	})
}

// GetPost returns the post with its byline, issue and tags loaded.
func (s *Store) GetPost(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := first(s.conn(ctx).Preload("Alias").Preload("Author").Preload("Issue").Preload("Tags"), &post, entityPost, id)
	return post, err
}

// ListPosts returns every post, newest first, without associations.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.conn(ctx).Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, err
}

// UpdatePost saves the post's own columns. Tags are changed with SetPostTags.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	if err := s.check(entityPost, post); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Post{}, entityPost, post.ID); err != nil {
			return err
		}
		if err := s.checkPostRefs(tx, post); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(post).Error, entityPost, positionKey...)
	})
}

// DeletePost deletes the post with its comments and tag links.
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "posts", entityPost, &models.Post{}, id)
	})
}

// SetPostTags replaces the post's tags with the named ones, creating
// missing tags. Blank and duplicate names are ignored.
func (s *Store) SetPostTags(ctx context.Context, postID uint, names []string) ([]models.Tag, error) {
	names = lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.TrimSpace(n)
		return n, n != ""
	}))

	var tags []models.Tag
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Post{}, entityPost, postID); err != nil {
			return err
		}
		for _, name := range names {
			tag, err := getOrCreateTagTx(tx, s, name)
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return replaceTags(tx, postID, lo.Map(tags, func(t models.Tag, _ int) uint { return t.ID }))
	})
	return tags, err
}

// AddPostTag links the named tag to the post, creating the tag if needed.
func (s *Store) AddPostTag(ctx context.Context, postID uint, name string) (models.Tag, error) {
	var tag models.Tag
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Post{}, entityPost, postID); err != nil {
			return err
		}
		var err error
		if tag, err = getOrCreateTagTx(tx, s, strings.TrimSpace(name)); err != nil {
			return err
		}
		link := models.PostTagLink{PostID: postID, TagID: tag.ID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	})
	return tag, err
}

// RemovePostTag unlinks the named tag from the post.
func (s *Store) RemovePostTag(ctx context.Context, postID uint, name string) error {
	name = strings.TrimSpace(name)
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Post{}, entityPost, postID); err != nil {
			return err
		}
		var tag models.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			return translate(err, entityTag)
		}
		res := tx.Where("post_id = ? AND tag_id = ?", postID, tag.ID).Delete(&models.PostTagLink{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("post tag", name)
		}
		return nil
	})
}

func getOrCreateTagTx(tx *gorm.DB, s *Store, name string) (models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).Limit(1).Find(&tag).Error
	if err != nil || tag.ID != 0 {
		return tag, err
	}
	tag = models.Tag{Name: name}
	if err := s.check(entityTag, &tag); err != nil {
		return tag, err
	}
	return tag, translate(tx.Create(&tag).Error, entityTag, "name")
}

func replaceTags(tx *gorm.DB, postID uint, tagIDs []uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTagLink{}).Error; err != nil {
		return err
	}
	tagIDs = lo.Uniq(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(tagIDs) {
		return violation(entityPost, "references a missing tag", "tags")
	}

	links := lo.Map(tagIDs, func(id uint, _ int) models.PostTagLink {
		return models.PostTagLink{PostID: postID, TagID: id}
	})
	return tx.Create(&links).Error
}
