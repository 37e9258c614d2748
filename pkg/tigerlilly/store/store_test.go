package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/database"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
)

func setupTestStore(t *testing.T) *Store {
	db, err := database.Open("sqlite", ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return New(db)
}

func uintPtr(v uint) *uint { return &v }

func createIssue(t *testing.T, s *Store, number string) models.Issue {
	issue := models.Issue{IssueNumber: decimal.RequireFromString(number), Title: "Issue " + number}
	require.NoError(t, s.CreateIssue(context.Background(), &issue))
	return issue
}

func createPost(t *testing.T, s *Store, title string, issueID *uint, position *uint) models.Post {
	post := models.Post{Title: title, ArticleText: "Body of " + title, IssueID: issueID, IssuePosition: position}
	require.NoError(t, s.CreatePost(context.Background(), &post))
	return post
}

func requireViolation(t *testing.T, err error, fields ...string) {
	t.Helper()
	require.ErrorIs(t, err, ErrConstraintViolation)
	var cv *ConstraintViolation
	require.True(t, errors.As(err, &cv))
	if len(fields) > 0 {
		assert.Equal(t, fields, cv.Fields)
	}
}

func TestTagCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tag := models.Tag{Name: " poetry "}
	require.NoError(t, s.CreateTag(ctx, &tag))
	assert.NotZero(t, tag.ID)
	assert.Equal(t, "poetry", tag.Name)

	got, err := s.GetTagByName(ctx, "poetry")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	tag.Name = "verse"
	require.NoError(t, s.UpdateTag(ctx, &tag))
	got, err = s.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "verse", got.Name)

	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	_, err = s.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagNameUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, &models.Tag{Name: "poetry"}))
	err := s.CreateTag(ctx, &models.Tag{Name: "poetry"})
	requireViolation(t, err, "name")
}

func TestTagValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	requireViolation(t, s.CreateTag(ctx, &models.Tag{Name: ""}), "name")

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	requireViolation(t, s.CreateTag(ctx, &models.Tag{Name: string(long)}), "name")
}

func TestAuthorIdentityUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := models.Author{Last: "Green", First: "Brett", Email: "brett@example.com"}
	require.NoError(t, s.CreateAuthor(ctx, &a))

	dup := models.Author{Last: "Green", First: "Brett", Email: "brett@example.com"}
	requireViolation(t, s.CreateAuthor(ctx, &dup), "last", "first", "email")

	requireViolation(t, s.CreateAuthor(ctx, &models.Author{Last: "X", First: "Y", Email: "not-an-email"}), "email")
}

func TestAliasUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := models.Alias{AliasLast: "Lilly", AliasFirst: "Tiger", Tagline: "roars"}
	require.NoError(t, s.CreateAlias(ctx, &a))
	requireViolation(t, s.CreateAlias(ctx, &models.Alias{AliasLast: "Lilly", AliasFirst: "Tiger"}), "alias_last", "alias_first")

	found, err := s.FindAliasByName(ctx, "Tiger", "Lilly")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Equal(t, "Tiger Lilly", found.FullName())
}

func TestIssueNumberRules(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	issue := createIssue(t, s, "3.07")

	got, err := s.GetIssueByNumber(ctx, decimal.RequireFromString("3.07"))
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)
	assert.True(t, got.IssueNumber.Equal(decimal.RequireFromString("3.07")))

	dup := models.Issue{IssueNumber: decimal.RequireFromString("3.07")}
	requireViolation(t, s.CreateIssue(ctx, &dup), "issue_number")

	bad := models.Issue{IssueNumber: decimal.RequireFromString("3.00")}
	requireViolation(t, s.CreateIssue(ctx, &bad), "issue_number")

	tooLarge := models.Issue{IssueNumber: decimal.RequireFromString("4000.01")}
	requireViolation(t, s.CreateIssue(ctx, &tooLarge), "issue_number")

	issue.IssueNumber = decimal.RequireFromString("18446744073709551621.01")
	requireViolation(t, s.UpdateIssue(ctx, &issue), "issue_number")
}

func TestSetCurrentIssueLeavesOne(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := createIssue(t, s, "1.01")
	second := createIssue(t, s, "1.02")

	_, err := s.SetCurrentIssue(ctx, first.ID)
	require.NoError(t, err)
	current, err := s.SetCurrentIssue(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentIssue)

	var flagged []models.Issue
	require.NoError(t, s.DB().Where("current_issue = ?", true).Find(&flagged).Error)
	require.Len(t, flagged, 1)
	assert.Equal(t, second.ID, flagged[0].ID)

	_, err = s.SetCurrentIssue(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCurrentIssueClearsOthers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	old := models.Issue{IssueNumber: decimal.RequireFromString("1.01"), CurrentIssue: true}
	require.NoError(t, s.CreateIssue(ctx, &old))
	fresh := models.Issue{IssueNumber: decimal.RequireFromString("1.02"), CurrentIssue: true}
	require.NoError(t, s.CreateIssue(ctx, &fresh))

	got, err := s.GetIssue(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, got.CurrentIssue)
}

func TestPostRequiredFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "No body"}), "article_text")
	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "Blank body", ArticleText: "   "}), "article_text")
	requireViolation(t, s.CreatePost(ctx, &models.Post{ArticleText: "No title"}), "title")
}

func TestPostIssuePositionUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	issue := createIssue(t, s, "2.01")
	createPost(t, s, "First", &issue.ID, uintPtr(1))

	dup := models.Post{Title: "Second", ArticleText: "text", IssueID: &issue.ID, IssuePosition: uintPtr(1)}
	requireViolation(t, s.CreatePost(ctx, &dup), "issue_id", "issue_position")

	// Same position in another issue is fine
	other := createIssue(t, s, "2.02")
	createPost(t, s, "Elsewhere", &other.ID, uintPtr(1))

	// Moving a post onto a taken slot fails on update too
	moved := createPost(t, s, "Mover", &issue.ID, uintPtr(2))
	moved.IssuePosition = uintPtr(1)
	requireViolation(t, s.UpdatePost(ctx, &moved), "issue_id", "issue_position")
}

func TestPostMissingReferences(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "t", ArticleText: "a", AliasID: uintPtr(42)}), "alias_id")
	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "t", ArticleText: "a", AuthorID: uintPtr(42)}), "author_id")
	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "t", ArticleText: "a", IssueID: uintPtr(42)}), "issue_id")
	requireViolation(t, s.CreatePost(ctx, &models.Post{Title: "t", ArticleText: "a", Tags: []models.Tag{{ID: 42}}}), "tags")
}

func TestGetPostPreloads(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	alias := models.Alias{AliasLast: "Lilly", AliasFirst: "Tiger"}
	require.NoError(t, s.CreateAlias(ctx, &alias))
	author := models.Author{Last: "Green", First: "Brett", Email: "brett@example.com"}
	require.NoError(t, s.CreateAuthor(ctx, &author))
	issue := createIssue(t, s, "1.01")
	tag := models.Tag{Name: "fiction"}
	require.NoError(t, s.CreateTag(ctx, &tag))

	post := models.Post{
		Title:       "Loaded",
		ArticleText: "text",
		AliasID:     &alias.ID,
		AuthorID:    &author.ID,
		IssueID:     &issue.ID,
		Tags:        []models.Tag{tag},
	}
	require.NoError(t, s.CreatePost(ctx, &post))

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Alias)
	require.NotNil(t, got.Author)
	require.NotNil(t, got.Issue)
	assert.Equal(t, "Tiger Lilly", got.Alias.FullName())
	assert.Equal(t, "Brett Green", got.Author.FullName())
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "fiction", got.Tags[0].Name)

	_, err = s.GetPost(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostTagOperations(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := createPost(t, s, "Tagged", nil, nil)

	tags, err := s.SetPostTags(ctx, post.ID, []string{"fiction", " poetry ", "", "fiction"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = s.AddPostTag(ctx, post.ID, "essay")
	require.NoError(t, err)
	// Adding twice is a no-op
	_, err = s.AddPostTag(ctx, post.ID, "essay")
	require.NoError(t, err)

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 3)

	require.NoError(t, s.RemovePostTag(ctx, post.ID, "fiction"))
	assert.ErrorIs(t, s.RemovePostTag(ctx, post.ID, "fiction"), ErrNotFound)
	assert.ErrorIs(t, s.RemovePostTag(ctx, post.ID, "nonexistent"), ErrNotFound)

	// Names are trimmed on removal the same way they are on add.
	_, err = s.AddPostTag(ctx, post.ID, " verse")
	require.NoError(t, err)
	require.NoError(t, s.RemovePostTag(ctx, post.ID, " verse "))

	tags, err = s.SetPostTags(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
	got, err = s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestDeleteTagCascadesToLinks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := createPost(t, s, "Tagged", nil, nil)
	tags, err := s.SetPostTags(ctx, post.ID, []string{"fiction", "poetry"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTag(ctx, tags[0].ID))

	var links int64
	s.DB().Model(&models.PostTagLink{}).Where("tag_id = ?", tags[0].ID).Count(&links)
	assert.Zero(t, links)

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "poetry", got.Tags[0].Name)
}

func TestDeletePostCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := createPost(t, s, "Doomed", nil, nil)
	_, err := s.SetPostTags(ctx, post.ID, []string{"fiction"})
	require.NoError(t, err)
	require.NoError(t, s.CreateComment(ctx, &models.Comment{CommentText: "first!", PostID: post.ID}))

	require.NoError(t, s.DeletePost(ctx, post.ID))

	var comments, links, tags int64
	s.DB().Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	s.DB().Model(&models.PostTagLink{}).Where("post_id = ?", post.ID).Count(&links)
	s.DB().Model(&models.Tag{}).Count(&tags)
	assert.Zero(t, comments)
	assert.Zero(t, links)
	assert.EqualValues(t, 1, tags, "tags outlive their posts")

	assert.ErrorIs(t, s.DeletePost(ctx, post.ID), ErrNotFound)
}

func TestDeleteAliasAndIssueSetNull(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	alias := models.Alias{AliasLast: "Lilly", AliasFirst: "Tiger"}
	require.NoError(t, s.CreateAlias(ctx, &alias))
	issue := createIssue(t, s, "1.01")

	post := models.Post{Title: "Orphan", ArticleText: "text", AliasID: &alias.ID, IssueID: &issue.ID, IssuePosition: uintPtr(1)}
	require.NoError(t, s.CreatePost(ctx, &post))

	require.NoError(t, s.DeleteAlias(ctx, alias.ID))
	require.NoError(t, s.DeleteIssue(ctx, issue.ID))

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AliasID)
	assert.Nil(t, got.IssueID)
}

func TestDeleteAuthorRestricted(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	author := models.Author{Last: "Green", First: "Brett", Email: "brett@example.com"}
	require.NoError(t, s.CreateAuthor(ctx, &author))
	post := models.Post{Title: "Byline", ArticleText: "text", AuthorID: &author.ID}
	require.NoError(t, s.CreatePost(ctx, &post))

	requireViolation(t, s.DeleteAuthor(ctx, author.ID), "author_id")
	_, err := s.GetAuthor(ctx, author.ID)
	require.NoError(t, err, "restricted author must survive")

	require.NoError(t, s.DeletePost(ctx, post.ID))
	require.NoError(t, s.DeleteAuthor(ctx, author.ID))
}

func TestComments(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := createPost(t, s, "Discussed", nil, nil)

	early := models.Comment{CommentText: "early", PostID: post.ID, Datetime: time.Now().Add(-time.Hour)}
	require.NoError(t, s.CreateComment(ctx, &early))
	late := models.Comment{CommentText: "late", PostID: post.ID}
	require.NoError(t, s.CreateComment(ctx, &late))
	assert.False(t, late.Datetime.IsZero())

	comments, err := s.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "early", comments[0].CommentText)

	requireViolation(t, s.CreateComment(ctx, &models.Comment{CommentText: "", PostID: post.ID}), "comment_text")
	requireViolation(t, s.CreateComment(ctx, &models.Comment{CommentText: "lost", PostID: 999}), "post_id")

	_, err = s.ListCommentsForPost(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	late.CommentText = "edited"
	require.NoError(t, s.UpdateComment(ctx, &late))
	got, err := s.GetComment(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.CommentText)

	require.NoError(t, s.DeleteComment(ctx, late.ID))
	assert.ErrorIs(t, s.DeleteComment(ctx, late.ID), ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		require.NoError(t, tx.CreateTag(ctx, &models.Tag{Name: "kept?"}))
		// A failing nested write rolls back only its own savepoint.
		requireViolation(t, tx.CreateTag(ctx, &models.Tag{Name: "kept?"}), "name")
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, s.Transaction(ctx, func(tx *Store) error {
		return tx.CreateTag(ctx, &models.Tag{Name: "committed"})
	}))
	_, err = s.GetTagByName(ctx, "committed")
	assert.NoError(t, err)
}

func TestFindAuthorByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := models.Author{Last: "Eliot", First: "George", Email: "ge@example.com"}
	require.NoError(t, s.CreateAuthor(ctx, &first))
	require.NoError(t, s.CreateAuthor(ctx, &models.Author{Last: "Evans", First: "Mary Ann", Email: "ge@example.com"}))

	got, err := s.FindAuthorByEmail(ctx, "ge@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.FindAuthorByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrCreateTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.GetOrCreateTag(ctx, "fiction")
	require.NoError(t, err)
	again, err := s.GetOrCreateTag(ctx, "fiction")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = s.GetOrCreateTag(ctx, strings.Repeat("x", 51))
	requireViolation(t, err, "name")
}
