// Package site serves the public magazine: the current issue, single
// posts and their JSON mirrors.
package site

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/issues"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/metrics"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/posts"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler serves the public pages
type Handler struct {
	store   *store.Store
	posts   *posts.Service
	metrics *metrics.Metrics
}

// NewHandler creates a new site handler. m may be nil.
func NewHandler(s *store.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		store:   s,
		posts:   posts.NewService(s.DB()),
		metrics: m,
	}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
}

func (h *Handler) notFound(c *gin.Context, msg string) {
	h.metrics.PageView("not_found")
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{"Message": msg})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "notfound.html", gin.H{"Message": "Something went wrong"})
}

func (h *Handler) issuePage(c *gin.Context, issue models.Issue) (IssuePage, error) {
	list, err := h.posts.ListForIssue(c.Request.Context(), issue.ID)
	if err != nil {
		return IssuePage{}, err
	}
	return IssuePage{Issue: issueView(issue), Posts: postViews(list)}, nil
}

func (h *Handler) currentIssue(c *gin.Context) (models.Issue, error) {
	cur, err := issues.FindCurrent(c.Request.Context(), h.store.DB())
	if err != nil {
		return models.Issue{}, err
	}
	return cur.Issue()
}

// Home renders the current issue
func (h *Handler) Home(c *gin.Context) {
	issue, err := h.currentIssue(c)
	if errors.Is(err, issues.ErrNoCurrentIssue) {
		h.notFound(c, "No current issue")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	page, err := h.issuePage(c, issue)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.metrics.PageView("home")
	c.HTML(http.StatusOK, "home.html", page)
}

// Detail renders a single post. Requests without the canonical slug are
// redirected to it.
func (h *Handler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.notFound(c, "Page not found")
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.Get(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(c, "Post not found")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	view := postView(post)
	if c.Param("slug") != view.Slug {
		c.Redirect(http.StatusMovedPermanently, view.URL)
		return
	}

	comments, err := h.store.ListCommentsForPost(ctx, post.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	data := gin.H{"Post": view, "Comments": comments}
	if post.Issue != nil {
		data["Issue"] = issueView(*post.Issue)
	}

	h.metrics.PageView("detail")
	c.HTML(http.StatusOK, "detail.html", data)
}

// RegisterRoutes registers the HTML pages on the root router.
// Must be called after every static top-level route.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/:id", h.Detail)
	r.GET("/:id/:slug", h.Detail)
}

// RegisterAPIRoutes registers the JSON mirrors of the public pages
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/issues", h.ListIssues)
	rg.GET("/issues/current", h.CurrentIssue)
	rg.GET("/issues/:id", h.GetIssue)
	rg.GET("/posts", h.ListPosts)
	rg.GET("/posts/:id", h.GetPost)
}

// ListIssues returns every issue, newest first
func (h *Handler) ListIssues(c *gin.Context) {
	list, err := h.store.ListIssues(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	views := make([]IssueView, len(list))
	for i, issue := range list {
		views[i] = issueView(issue)
	}
	c.JSON(http.StatusOK, views)
}

// CurrentIssue returns the current issue with its post previews
func (h *Handler) CurrentIssue(c *gin.Context) {
	issue, err := h.currentIssue(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	page, err := h.issuePage(c, issue)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetIssue returns an issue with its post previews
func (h *Handler) GetIssue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid issue ID")
		return
	}
	issue, err := h.store.GetIssue(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	page, err := h.issuePage(c, issue)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPost returns a full post
func (h *Handler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid post ID")
		return
	}
	post, err := h.posts.Get(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, postView(post))
}

// ListPosts returns post previews, optionally filtered by tag name,
// author id or whether the post has comments
func (h *Handler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		list []models.Post
		err  error
	)
	switch {
	case c.Query("tag") != "":
		list, err = h.posts.ListByTag(ctx, c.Query("tag"))
	case c.Query("author") != "":
		authorID, perr := strconv.ParseUint(c.Query("author"), 10, 32)
		if perr != nil {
			httperr.BadRequest(c, "Invalid author ID")
			return
		}
		list, err = h.posts.ListByAuthor(ctx, uint(authorID))
	case c.Query("commented") == "true":
		list, err = h.posts.ListWithComments(ctx)
	case c.Query("title") != "":
		var post models.Post
		post, err = h.posts.GetByTitle(ctx, c.Query("title"))
		list = []models.Post{post}
		if err == nil {
			list[0].ArticleText = presentation.Preview(post.ArticleText)
		}
	default:
		list, err = h.posts.List(ctx)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, postViews(list))
}
