package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

// PostRequest represents the request to create or update a post.
// Tags, when present on create, are get-or-created by name.
type PostRequest struct {
	Title         string   `json:"title" binding:"required,max=500"`
	ArticleText   string   `json:"article_text" binding:"required"`
	AliasID       *uint    `json:"alias_id"`
	AuthorID      *uint    `json:"author_id"`
	IssueID       *uint    `json:"issue_id"`
	IssuePosition *uint    `json:"issue_position" binding:"omitempty,max=32767"`
	Tags          []string `json:"tags"`
}

// PostTagsRequest represents the request to replace a post's tags
type PostTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// CommentRequest represents the request to create or update a comment
type CommentRequest struct {
	PostID      uint       `json:"post_id" binding:"required"`
	CommentText string     `json:"comment_text" binding:"required,max=2000"`
	Datetime    *time.Time `json:"datetime"`
}

func (req PostRequest) apply(post *models.Post) {
	post.Title = req.Title
	post.ArticleText = req.ArticleText
	post.AliasID = req.AliasID
	post.AuthorID = req.AuthorID
	post.IssueID = req.IssueID
	post.IssuePosition = req.IssuePosition
}

// ListPosts returns all posts
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its associations
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.store.GetPost(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost creates a post
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var post models.Post
	req.apply(&post)
	err := h.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreatePost(ctx, &post); err != nil {
			return err
		}
		if len(req.Tags) == 0 {
			return nil
		}
		_, err := tx.SetPostTags(ctx, post.ID, req.Tags)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	created, err := h.store.GetPost(ctx, post.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePost updates a post's own fields
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.GetPost(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	req.apply(&post)
	post.Alias, post.Author, post.Issue = nil, nil, nil
	if err := h.store.UpdatePost(ctx, &post); err != nil {
		httperr.Respond(c, err)
		return
	}

	updated, err := h.store.GetPost(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetPostTags replaces a post's tags
func (h *Handler) SetPostTags(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PostTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	tags, err := h.store.SetPostTags(c.Request.Context(), id, req.Tags)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": lo.Map(tags, func(t models.Tag, _ int) string { return t.Name })})
}

// DeletePost deletes a post with its comments and tag links
func (h *Handler) DeletePost(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeletePost(c.Request.Context(), id))
	}
}

// ListComments returns all comments, newest first
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.store.ListComments(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GetComment returns a single comment
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	comment, err := h.store.GetComment(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// CreateComment creates a comment
func (h *Handler) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	comment := models.Comment{PostID: req.PostID, CommentText: req.CommentText}
	if req.Datetime != nil {
		comment.Datetime = *req.Datetime
	}
	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment
func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	comment, err := h.store.GetComment(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	comment.PostID = req.PostID
	comment.CommentText = req.CommentText
	if req.Datetime != nil {
		comment.Datetime = *req.Datetime
	}
	if err := h.store.UpdateComment(ctx, &comment); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment
func (h *Handler) DeleteComment(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeleteComment(c.Request.Context(), id))
	}
}
