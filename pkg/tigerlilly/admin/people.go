package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
)

// TagRequest represents the request to create or rename a tag
type TagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// AuthorRequest represents the request to create or update an author
type AuthorRequest struct {
	Last    string `json:"last" binding:"required,max=50"`
	First   string `json:"first" binding:"required,max=50"`
	Email   string `json:"email" binding:"required,email,max=200"`
	IsAdmin bool   `json:"is_admin"`
}

// AliasRequest represents the request to create or update an alias
type AliasRequest struct {
	AliasLast  string `json:"alias_last" binding:"required,max=50"`
	AliasFirst string `json:"alias_first" binding:"required,max=50"`
	Tagline    string `json:"tagline" binding:"max=200"`
	Bio        string `json:"bio"`
}

// ListTags returns all tags
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.store.ListTags(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag returns a single tag
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tag, err := h.store.GetTag(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// CreateTag creates a tag
func (h *Handler) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	tag := models.Tag{Name: req.Name}
	if err := h.store.CreateTag(c.Request.Context(), &tag); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag renames a tag
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	tag, err := h.store.GetTag(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	tag.Name = req.Name
	if err := h.store.UpdateTag(ctx, &tag); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag deletes a tag and detaches it from every post
func (h *Handler) DeleteTag(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeleteTag(c.Request.Context(), id))
	}
}

// ListAuthors returns all authors
func (h *Handler) ListAuthors(c *gin.Context) {
	authors, err := h.store.ListAuthors(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GetAuthor returns a single author
func (h *Handler) GetAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	author, err := h.store.GetAuthor(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// CreateAuthor creates an author
func (h *Handler) CreateAuthor(c *gin.Context) {
	var req AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	author := models.Author{Last: req.Last, First: req.First, Email: req.Email, IsAdmin: req.IsAdmin}
	if err := h.store.CreateAuthor(c.Request.Context(), &author); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

// UpdateAuthor updates an author
func (h *Handler) UpdateAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	author, err := h.store.GetAuthor(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	author.Last, author.First, author.Email, author.IsAdmin = req.Last, req.First, req.Email, req.IsAdmin
	if err := h.store.UpdateAuthor(ctx, &author); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor deletes an author that no post references
func (h *Handler) DeleteAuthor(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeleteAuthor(c.Request.Context(), id))
	}
}

// ListAliases returns all aliases
func (h *Handler) ListAliases(c *gin.Context) {
	aliases, err := h.store.ListAliases(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, aliases)
}

// GetAlias returns a single alias
func (h *Handler) GetAlias(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	alias, err := h.store.GetAlias(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, alias)
}

// CreateAlias creates an alias
func (h *Handler) CreateAlias(c *gin.Context) {
	var req AliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	alias := models.Alias{AliasLast: req.AliasLast, AliasFirst: req.AliasFirst, Tagline: req.Tagline, Bio: req.Bio}
	if err := h.store.CreateAlias(c.Request.Context(), &alias); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, alias)
}

// UpdateAlias updates an alias
func (h *Handler) UpdateAlias(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	alias, err := h.store.GetAlias(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	alias.AliasLast, alias.AliasFirst, alias.Tagline, alias.Bio = req.AliasLast, req.AliasFirst, req.Tagline, req.Bio
	if err := h.store.UpdateAlias(ctx, &alias); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, alias)
}

// DeleteAlias deletes an alias; its posts lose their byline
func (h *Handler) DeleteAlias(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeleteAlias(c.Request.Context(), id))
	}
}
