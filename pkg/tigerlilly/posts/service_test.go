package posts

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/database"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

type fixture struct {
	store   *store.Store
	service *Service
	issue   models.Issue
}

func setup(t *testing.T) fixture {
	db, err := database.Open("sqlite", ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	s := store.New(db)
	issue := models.Issue{IssueNumber: decimal.RequireFromString("3.07"), Title: "Spring"}
	require.NoError(t, s.CreateIssue(context.Background(), &issue))

	return fixture{store: s, service: NewService(db), issue: issue}
}

func uintPtr(v uint) *uint { return &v }

func (f fixture) post(t *testing.T, title, text string, issueID, position *uint) models.Post {
	p := models.Post{Title: title, ArticleText: text, IssueID: issueID, IssuePosition: position}
	require.NoError(t, f.store.CreatePost(context.Background(), &p))
	return p
}

func longText(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestListForIssueOrdersByPositionNullsLast(t *testing.T) {
	f := setup(t)
	issueID := &f.issue.ID

	// Inserted as positions [1, 2, null, 3]
	f.post(t, "one", "a", issueID, uintPtr(1))
	f.post(t, "two", "b", issueID, uintPtr(2))
	f.post(t, "unplaced", "c", issueID, nil)
	f.post(t, "three", "d", issueID, uintPtr(3))

	other := models.Issue{IssueNumber: decimal.RequireFromString("3.08")}
	require.NoError(t, f.store.CreateIssue(context.Background(), &other))
	f.post(t, "elsewhere", "e", &other.ID, uintPtr(1))

	posts, err := f.service.ListForIssue(context.Background(), f.issue.ID)
	require.NoError(t, err)

	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.Title
	}
	assert.Equal(t, []string{"one", "two", "three", "unplaced"}, titles)
}

func TestListForIssueFoldsWithoutPersisting(t *testing.T) {
	f := setup(t)
	long := longText(200)
	short := longText(150)
	longPost := f.post(t, "long", long, &f.issue.ID, uintPtr(1))
	f.post(t, "short", short, &f.issue.ID, uintPtr(2))

	posts, err := f.service.ListForIssue(context.Background(), f.issue.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, presentation.Preview(long), posts[0].ArticleText)
	assert.NotEqual(t, long, posts[0].ArticleText)
	assert.Equal(t, short, posts[1].ArticleText)

	stored, err := f.service.Get(context.Background(), longPost.ID)
	require.NoError(t, err)
	assert.Equal(t, long, stored.ArticleText, "detail view must stay untruncated")
}

func TestListForIssueEmpty(t *testing.T) {
	f := setup(t)

	posts, err := f.service.ListForIssue(context.Background(), f.issue.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGet(t *testing.T) {
	f := setup(t)
	p := f.post(t, "Story | Subtitle", "text", &f.issue.ID, uintPtr(1))

	got, err := f.service.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Story | Subtitle", got.Title)
	require.NotNil(t, got.Issue)
	assert.Equal(t, f.issue.ID, got.Issue.ID)

	_, err = f.service.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetByTitle(t *testing.T) {
	f := setup(t)
	p := f.post(t, "Unique Title", "text", nil, nil)

	got, err := f.service.GetByTitle(context.Background(), "Unique Title")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.service.GetByTitle(context.Background(), "Missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListByTag(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.post(t, "tagged", "text", nil, nil)
	f.post(t, "untagged", "text", nil, nil)
	_, err := f.store.SetPostTags(ctx, a.ID, []string{"fiction"})
	require.NoError(t, err)

	posts, err := f.service.ListByTag(ctx, "fiction")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, a.ID, posts[0].ID)
	assert.Len(t, posts[0].Tags, 1)

	posts, err = f.service.ListByTag(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListByAuthor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	author := models.Author{Last: "Green", First: "Brett", Email: "brett@example.com"}
	require.NoError(t, f.store.CreateAuthor(ctx, &author))
	p := models.Post{Title: "bylined", ArticleText: longText(160), AuthorID: &author.ID}
	require.NoError(t, f.store.CreatePost(ctx, &p))
	f.post(t, "anonymous", "text", nil, nil)

	posts, err := f.service.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Brett Green", posts[0].Author.FullName())
	assert.True(t, strings.Contains(posts[0].ArticleText, `class="hidden"`))
}

func TestListWithComments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	discussed := f.post(t, "discussed", "text", nil, nil)
	f.post(t, "quiet", "text", nil, nil)

	require.NoError(t, f.store.CreateComment(ctx, &models.Comment{CommentText: "one", PostID: discussed.ID}))
	require.NoError(t, f.store.CreateComment(ctx, &models.Comment{CommentText: "two", PostID: discussed.ID}))

	posts, err := f.service.ListWithComments(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, discussed.ID, posts[0].ID)
}

func TestListNewestFirst(t *testing.T) {
	f := setup(t)
	older := f.post(t, "older", "text", nil, nil)
	newer := f.post(t, "newer", longText(200), nil, nil)

	posts, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.True(t, presentation.IsFolded(posts[0].ArticleText))
}
