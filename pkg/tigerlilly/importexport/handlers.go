package importexport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

const dateLayout = "2006-01-02"

// Handler handles import/export requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new import/export handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// IssueDocument is the portable form of an issue and its posts
type IssueDocument struct {
	IssueNumber   string         `json:"issue_number" binding:"required"`
	Title         string         `json:"title"`
	CurrentIssue  bool           `json:"current_issue"`
	DatePublished string         `json:"date_published,omitempty"`
	Posts         []PostDocument `json:"posts"`
}

// PostDocument is a post within an IssueDocument
type PostDocument struct {
	Title         string            `json:"title"`
	ArticleText   string            `json:"article_text"`
	IssuePosition *uint             `json:"issue_position,omitempty"`
	Alias         *AliasDocument    `json:"alias,omitempty"`
	AuthorEmail   string            `json:"author_email,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Comments      []CommentDocument `json:"comments,omitempty"`
}

// AliasDocument identifies an alias by name
type AliasDocument struct {
	First   string `json:"first"`
	Last    string `json:"last"`
	Tagline string `json:"tagline,omitempty"`
}

// CommentDocument is a comment within a PostDocument
type CommentDocument struct {
	CommentText string    `json:"comment_text"`
	Datetime    time.Time `json:"datetime"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	IssueID      uint     `json:"issue_id"`
	IssueCreated bool     `json:"issue_created"`
	Imported     int      `json:"imported"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors,omitempty"`
}

// Export returns an issue with its posts as an IssueDocument
func (h *Handler) Export(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid issue ID")
		return
	}

	doc, err := h.ExportIssue(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=issue-%s.json", doc.IssueNumber))
	}
	c.JSON(http.StatusOK, doc)
}

// ExportIssue builds the document for issue id
func (h *Handler) ExportIssue(ctx context.Context, id uint) (IssueDocument, error) {
	issue, err := h.store.GetIssue(ctx, id)
	if err != nil {
		return IssueDocument{}, err
	}

	doc := IssueDocument{
		IssueNumber:  issue.IssueNumber.StringFixed(2),
		Title:        issue.Title,
		CurrentIssue: issue.CurrentIssue,
		Posts:        []PostDocument{},
	}
	if issue.DatePublished != nil {
		doc.DatePublished = issue.DatePublished.Format(dateLayout)
	}

	var posts []models.Post
	err = h.store.DB().WithContext(ctx).
		Preload("Alias").Preload("Author").Preload("Tags").
		Where("issue_id = ?", id).
		Order("issue_position IS NULL, issue_position, id").
		Find(&posts).Error
	if err != nil {
		return doc, err
	}

	for _, post := range posts {
		comments, err := h.store.ListCommentsForPost(ctx, post.ID)
		if err != nil {
			return doc, err
		}

		pd := PostDocument{
			Title:         post.Title,
			ArticleText:   post.ArticleText,
			IssuePosition: post.IssuePosition,
			Tags:          tagNames(post.Tags),
			Comments: lo.Map(comments, func(cm models.Comment, _ int) CommentDocument {
				return CommentDocument{CommentText: cm.CommentText, Datetime: cm.Datetime}
			}),
		}
		if post.Alias != nil {
			pd.Alias = &AliasDocument{First: post.Alias.AliasFirst, Last: post.Alias.AliasLast, Tagline: post.Alias.Tagline}
		}
		if post.Author != nil {
			pd.AuthorEmail = post.Author.Email
		}
		doc.Posts = append(doc.Posts, pd)
	}

	return doc, nil
}

func tagNames(tags []models.Tag) []string {
	names := lo.Map(tags, func(t models.Tag, _ int) string { return t.Name })
	slices.Sort(names)
	return names
}

// Import recreates an exported issue
func (h *Handler) Import(c *gin.Context) {
	var doc IssueDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	result, err := h.ImportIssue(c.Request.Context(), doc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportIssue applies doc in a single transaction. The issue is matched by
// number or created; posts whose position is already taken, or that fail
// validation, are skipped and reported.
func (h *Handler) ImportIssue(ctx context.Context, doc IssueDocument) (ImportResult, error) {
	var result ImportResult

	number, err := presentation.ParseIssueNumber(doc.IssueNumber)
	if err != nil {
		return result, err
	}
	var published *time.Time
	if doc.DatePublished != "" {
		d, err := time.Parse(dateLayout, doc.DatePublished)
		if err != nil {
			return result, fmt.Errorf("%w: date_published %q", presentation.ErrInvalidInput, doc.DatePublished)
		}
		published = &d
	}

	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		result = ImportResult{}

		issue, err := tx.GetIssueByNumber(ctx, number)
		switch {
		case errors.Is(err, store.ErrNotFound):
			issue = models.Issue{IssueNumber: number, Title: doc.Title, CurrentIssue: doc.CurrentIssue, DatePublished: published}
			if err := tx.CreateIssue(ctx, &issue); err != nil {
				return err
			}
			result.IssueCreated = true
		case err != nil:
			return err
		}
		result.IssueID = issue.ID

		for i, pd := range doc.Posts {
			if err := importPost(ctx, tx, issue.ID, pd); err != nil {
				if !errors.Is(err, store.ErrConstraintViolation) {
					return err
				}
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("post %d (%s): %v", i, pd.Title, err))
				continue
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.Info().
		Uint("issue_id", result.IssueID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Issue imported")
	return result, nil
}

// importPost runs in its own savepoint so a rejected post leaves no alias,
// tags or comments behind.
func importPost(ctx context.Context, tx *store.Store, issueID uint, pd PostDocument) error {
	return tx.Transaction(ctx, func(tx *store.Store) error {
		post := models.Post{
			Title:         pd.Title,
			ArticleText:   pd.ArticleText,
			IssueID:       &issueID,
			IssuePosition: pd.IssuePosition,
		}

		if pd.Alias != nil {
			alias, err := tx.FindAliasByName(ctx, pd.Alias.First, pd.Alias.Last)
			if errors.Is(err, store.ErrNotFound) {
				alias = models.Alias{AliasFirst: pd.Alias.First, AliasLast: pd.Alias.Last, Tagline: pd.Alias.Tagline}
				err = tx.CreateAlias(ctx, &alias)
			}
			if err != nil {
				return err
			}
			post.AliasID = &alias.ID
		}

		// Unknown authors are left unset.
		if pd.AuthorEmail != "" {
			author, err := tx.FindAuthorByEmail(ctx, pd.AuthorEmail)
			switch {
			case err == nil:
				post.AuthorID = &author.ID
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if err := tx.CreatePost(ctx, &post); err != nil {
			return err
		}
		if len(pd.Tags) > 0 {
			if _, err := tx.SetPostTags(ctx, post.ID, pd.Tags); err != nil {
				return err
			}
		}
		for _, cd := range pd.Comments {
			comment := models.Comment{PostID: post.ID, CommentText: cd.CommentText, Datetime: cd.Datetime}
			if err := tx.CreateComment(ctx, &comment); err != nil {
				return err
			}
		}
		return nil
	})
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/issues/:id/export", h.Export)
}
