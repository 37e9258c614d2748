package site

import (
	"fmt"
	"html/template"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
)

const dateFormat = "January 2, 2006"

// IssueView is an issue with its rendered volume/number label
type IssueView struct {
	models.Issue
	Label string `json:"label"`
}

// PostView is a post with its canonical location. Folded is set on
// listing previews whose text was cut at the word limit.
type PostView struct {
	models.Post
	Slug   string `json:"slug"`
	URL    string `json:"url"`
	Byline string `json:"byline,omitempty"`
	Folded bool   `json:"folded"`
}

// IssuePage is an issue together with its ordered post previews
type IssuePage struct {
	Issue IssueView  `json:"issue"`
	Posts []PostView `json:"posts"`
}

func issueView(issue models.Issue) IssueView {
	v := IssueView{Issue: issue}
	if label, err := presentation.IssueLabel(issue.IssueNumber); err == nil {
		v.Label = label.String()
	}
	return v
}

func postView(post models.Post) PostView {
	slug := presentation.Slug(post.Title)
	return PostView{
		Post:   post,
		Slug:   slug,
		URL:    canonicalURL(post.ID, slug),
		Byline: byline(post),
	}
}

func postViews(posts []models.Post) []PostView {
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = postView(p)
		views[i].Folded = presentation.IsFolded(p.ArticleText)
	}
	return views
}

func canonicalURL(id uint, slug string) string {
	return fmt.Sprintf("/%d/%s", id, slug)
}

// byline prefers the alias over the real author name.
func byline(post models.Post) string {
	switch {
	case post.Alias != nil:
		return post.Alias.FullName()
	case post.Author != nil:
		return post.Author.FullName()
	}
	return ""
}

var funcMap = template.FuncMap{
	// Article text is editor-authored markup and previews carry fold markers.
	"safe": func(s string) template.HTML { return template.HTML(s) },
	"date": func(issue IssueView) string {
		if issue.DatePublished == nil {
			return ""
		}
		return issue.DatePublished.Format(dateFormat)
	},
}
