package tags

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

// Handler handles tag-related requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new tags handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"post_count,omitempty"`
}

func toResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name}
	}
	return out
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid post ID")
		return 0, false
	}
	return uint(id), true
}

// List returns every tag with the number of posts carrying it, most used first
func (h *Handler) List(c *gin.Context) {
	type tagWithCount struct {
		ID        uint
		Name      string
		PostCount int
	}

	var results []tagWithCount
	err := h.store.DB().WithContext(c.Request.Context()).Table("tags").
		Select("tags.id, tags.name, COUNT(post_tag_links.post_id) as post_count").
		Joins("LEFT JOIN post_tag_links ON tags.id = post_tag_links.tag_id").
		Group("tags.id, tags.name").
		Order("post_count DESC, tags.name").
		Find(&results).Error
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	tags := make([]TagResponse, len(results))
	for i, r := range results {
		tags[i] = TagResponse{ID: r.ID, Name: r.Name, PostCount: r.PostCount}
	}
	c.JSON(http.StatusOK, tags)
}

// GetPostTags returns tags for a specific post
func (h *Handler) GetPostTags(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.store.GetPost(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(post.Tags))
}

// AddPostTag adds a single tag to a post
func (h *Handler) AddPostTag(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	tag, err := h.store.AddPostTag(c.Request.Context(), id, c.Param("tag"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, TagResponse{ID: tag.ID, Name: tag.Name})
}

// RemovePostTag removes a tag from a post
func (h *Handler) RemovePostTag(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.store.RemovePostTag(c.Request.Context(), id, c.Param("tag")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag removed"})
}

// RegisterRoutes registers the read-only tag routes on the public group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.GET("/posts/:id/tags", h.GetPostTags)
}

// RegisterAdminRoutes registers the routes that attach and detach single
// tags. Replacing a post's whole tag set is served by the admin package.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/posts/:id/tags/:tag", h.AddPostTag)
	rg.DELETE("/posts/:id/tags/:tag", h.RemovePostTag)
}
