package comments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

// Handler handles comment requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new comments handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// CreateCommentRequest represents the request to comment on a post
type CreateCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required,max=2000"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"post_id"`
	CommentText string    `json:"comment_text"`
	Datetime    time.Time `json:"datetime"`
}

func toResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		PostID:      c.PostID,
		CommentText: c.CommentText,
		Datetime:    c.Datetime,
	}
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid post ID")
		return 0, false
	}
	return uint(id), true
}

// List returns the comments on a post, oldest first
func (h *Handler) List(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	comments, err := h.store.ListCommentsForPost(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	response := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		response[i] = toResponse(cm)
	}
	c.JSON(http.StatusOK, response)
}

// Create adds a comment to a post
func (h *Handler) Create(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	comment := models.Comment{PostID: id, CommentText: req.CommentText}
	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(comment))
}

// RegisterRoutes registers comment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts/:id/comments", h.List)
	rg.POST("/posts/:id/comments", h.Create)
}
