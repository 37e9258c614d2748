package models

import "time"

// Post is a single article. It belongs to at most one issue, at an
// optional position; (IssueID, IssuePosition) is unique when both are set.
type Post struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `gorm:"size:500;not null" json:"title" validate:"required,max=500"`
	ArticleText   string    `gorm:"type:text;not null" json:"article_text" validate:"required"`
	AliasID       *uint     `gorm:"index" json:"alias_id"`
	AuthorID      *uint     `gorm:"index" json:"author_id"`
	IssueID       *uint     `gorm:"uniqueIndex:idx_issue_position" json:"issue_id"`
	IssuePosition *uint     `gorm:"uniqueIndex:idx_issue_position" json:"issue_position" validate:"omitempty,max=32767"`

	// Relationships
	Alias  *Alias  `gorm:"foreignKey:AliasID;constraint:OnDelete:SET NULL" json:"alias,omitempty" validate:"-"`
	Author *Author `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author,omitempty" validate:"-"`
	Issue  *Issue  `gorm:"foreignKey:IssueID;constraint:OnDelete:SET NULL" json:"issue,omitempty" validate:"-"`
	Tags   []Tag   `gorm:"many2many:post_tag_links;constraint:OnDelete:CASCADE" json:"tags,omitempty" validate:"-"`
}

func (p Post) String() string {
	return p.Title
}

// Comment is a reader comment on a post.
type Comment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CommentText string    `gorm:"size:2000;not null" json:"comment_text" validate:"required,max=2000"`
	Datetime    time.Time `gorm:"not null" json:"datetime"`
	PostID      uint      `gorm:"not null;index" json:"post_id" validate:"required"`

	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty" validate:"-"`
}
