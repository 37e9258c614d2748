// Package server assembles the HTTP router from the feature handlers.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/admin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/comments"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/importexport"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/logging"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/metrics"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/site"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/tags"
	"gorm.io/gorm"
)

// NewRouter creates a gin engine with every route registered. m may be nil,
// in which case no metrics are collected or served.
func NewRouter(db *gorm.DB, m *metrics.Metrics) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.Handler())
	}

	tmpl, err := site.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	s := store.New(db)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	siteHandler := site.NewHandler(s, m)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "tigerlilly",
			})
		})

		siteHandler.RegisterAPIRoutes(api)
		tagsHandler := tags.NewHandler(s)
		tagsHandler.RegisterRoutes(api)
		comments.NewHandler(s).RegisterRoutes(api)

		// Administrative routes. Not authenticated; mount behind a trusted proxy.
		adminGroup := api.Group("/admin")
		admin.NewHandler(s).RegisterRoutes(adminGroup)
		tagsHandler.RegisterAdminRoutes(adminGroup)
		importexport.NewHandler(s).RegisterRoutes(adminGroup)
	}

	// Post pages match any /:id, so they go last
	siteHandler.RegisterRoutes(r)

	return r, nil
}
