package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/httperr"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
)

// DateLayout is the wire format of date_published.
const DateLayout = "2006-01-02"

// IssueRequest represents the request to create or update an issue.
// IssueNumber is the VOL.ISS form, e.g. "3.07".
type IssueRequest struct {
	IssueNumber   string  `json:"issue_number" binding:"required"`
	Title         string  `json:"title" binding:"max=500"`
	CurrentIssue  bool    `json:"current_issue"`
	DatePublished *string `json:"date_published"`
}

// IssueResponse is an issue with its rendered volume/number label
type IssueResponse struct {
	models.Issue
	Label string `json:"label"`
}

func issueResponse(issue models.Issue) IssueResponse {
	resp := IssueResponse{Issue: issue}
	if label, err := presentation.IssueLabel(issue.IssueNumber); err == nil {
		resp.Label = label.String()
	}
	return resp
}

func (req IssueRequest) apply(issue *models.Issue) error {
	number, err := presentation.ParseIssueNumber(req.IssueNumber)
	if err != nil {
		return err
	}
	issue.IssueNumber = number
	issue.Title = req.Title
	issue.CurrentIssue = req.CurrentIssue
	issue.DatePublished = nil
	if req.DatePublished != nil && *req.DatePublished != "" {
		d, err := time.Parse(DateLayout, *req.DatePublished)
		if err != nil {
			return presentation.ErrInvalidInput
		}
		issue.DatePublished = &d
	}
	return nil
}

// ListIssues returns all issues, newest first
func (h *Handler) ListIssues(c *gin.Context) {
	issues, err := h.store.ListIssues(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	response := make([]IssueResponse, len(issues))
	for i, issue := range issues {
		response[i] = issueResponse(issue)
	}
	c.JSON(http.StatusOK, response)
}

// GetIssue returns a single issue
func (h *Handler) GetIssue(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	issue, err := h.store.GetIssue(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue))
}

// CreateIssue creates an issue
func (h *Handler) CreateIssue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	var issue models.Issue
	if err := req.apply(&issue); err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.store.CreateIssue(c.Request.Context(), &issue); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, issueResponse(issue))
}

// UpdateIssue updates an issue
func (h *Handler) UpdateIssue(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	issue, err := h.store.GetIssue(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := req.apply(&issue); err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.store.UpdateIssue(ctx, &issue); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue))
}

// SetCurrentIssue makes the issue the only current one
func (h *Handler) SetCurrentIssue(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	issue, err := h.store.SetCurrentIssue(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, issueResponse(issue))
}

// DeleteIssue deletes an issue; its posts become unassigned
func (h *Handler) DeleteIssue(c *gin.Context) {
	if id, ok := parseID(c); ok {
		deleted(c, h.store.DeleteIssue(c.Request.Context(), id))
	}
}
