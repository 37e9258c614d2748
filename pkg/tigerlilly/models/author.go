package models

import "time"

// Author is the real person behind a post.
type Author struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Last      string    `gorm:"size:50;not null;uniqueIndex:idx_author_identity" json:"last" validate:"required,max=50"`
	First     string    `gorm:"size:50;not null;uniqueIndex:idx_author_identity" json:"first" validate:"required,max=50"`
	Email     string    `gorm:"size:200;not null;uniqueIndex:idx_author_identity" json:"email" validate:"required,email,max=200"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
}

// FullName returns "First Last".
func (a Author) FullName() string {
	return a.First + " " + a.Last
}

func (a Author) String() string {
	return a.FullName()
}

// Alias is a pseudonym printed in bylines instead of the author's name.
type Alias struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	AliasLast  string    `gorm:"size:50;not null;uniqueIndex:idx_alias_name" json:"alias_last" validate:"required,max=50"`
	AliasFirst string    `gorm:"size:50;not null;uniqueIndex:idx_alias_name" json:"alias_first" validate:"required,max=50"`
	Tagline    string    `gorm:"size:200" json:"tagline,omitempty" validate:"max=200"`
	Bio        string    `gorm:"type:text" json:"bio,omitempty"`
}

// FullName returns the byline form of the alias.
func (a Alias) FullName() string {
	return a.AliasFirst + " " + a.AliasLast
}
