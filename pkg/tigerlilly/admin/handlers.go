package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

// Handler handles admin requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new admin handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// StatsResponse represents content statistics
type StatsResponse struct {
	TotalTags       int64 `json:"total_tags"`
	TotalAuthors    int64 `json:"total_authors"`
	TotalAliases    int64 `json:"total_aliases"`
	TotalIssues     int64 `json:"total_issues"`
	TotalPosts      int64 `json:"total_posts"`
	TotalComments   int64 `json:"total_comments"`
	UnassignedPosts int64 `json:"unassigned_posts"`
	CurrentIssues   int64 `json:"current_issues"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func deleted(c *gin.Context, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats returns entity counts
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse
	db := h.store.DB().WithContext(c.Request.Context())

	counts := []struct {
		model interface{}
		where []interface{}
		dest  *int64
	}{
		{&models.Tag{}, nil, &stats.TotalTags},
		{&models.Author{}, nil, &stats.TotalAuthors},
		{&models.Alias{}, nil, &stats.TotalAliases},
		{&models.Issue{}, nil, &stats.TotalIssues},
		{&models.Post{}, nil, &stats.TotalPosts},
		{&models.Comment{}, nil, &stats.TotalComments},
		{&models.Post{}, []interface{}{"issue_id IS NULL"}, &stats.UnassignedPosts},
		{&models.Issue{}, []interface{}{"current_issue = ?", true}, &stats.CurrentIssues},
	}
	for _, cnt := range counts {
		q := db.Model(cnt.model)
		if len(cnt.where) > 0 {
			q = q.Where(cnt.where[0], cnt.where[1:]...)
		}
		if err := q.Count(cnt.dest).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)

	rg.GET("/tags", h.ListTags)
	rg.POST("/tags", h.CreateTag)
	rg.GET("/tags/:id", h.GetTag)
	rg.PUT("/tags/:id", h.UpdateTag)
	rg.DELETE("/tags/:id", h.DeleteTag)

	rg.GET("/authors", h.ListAuthors)
	rg.POST("/authors", h.CreateAuthor)
	rg.GET("/authors/:id", h.GetAuthor)
	rg.PUT("/authors/:id", h.UpdateAuthor)
	rg.DELETE("/authors/:id", h.DeleteAuthor)

	rg.GET("/aliases", h.ListAliases)
	rg.POST("/aliases", h.CreateAlias)
	rg.GET("/aliases/:id", h.GetAlias)
	rg.PUT("/aliases/:id", h.UpdateAlias)
	rg.DELETE("/aliases/:id", h.DeleteAlias)

	rg.GET("/issues", h.ListIssues)
	rg.POST("/issues", h.CreateIssue)
	rg.GET("/issues/:id", h.GetIssue)
	rg.PUT("/issues/:id", h.UpdateIssue)
	rg.DELETE("/issues/:id", h.DeleteIssue)
	rg.POST("/issues/:id/current", h.SetCurrentIssue)

	rg.GET("/posts", h.ListPosts)
	rg.POST("/posts", h.CreatePost)
	rg.GET("/posts/:id", h.GetPost)
	rg.PUT("/posts/:id", h.UpdatePost)
	rg.DELETE("/posts/:id", h.DeletePost)
	rg.PUT("/posts/:id/tags", h.SetPostTags)

	rg.GET("/comments", h.ListComments)
	rg.POST("/comments", h.CreateComment)
	rg.GET("/comments/:id", h.GetComment)
	rg.PUT("/comments/:id", h.UpdateComment)
	rg.DELETE("/comments/:id", h.DeleteComment)
}
