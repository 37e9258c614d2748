package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Issue is one numbered edition of the magazine. IssueNumber encodes
// volume and issue as VOL.ISS, e.g. 3.07 is volume 3, issue 7.
type Issue struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	IssueNumber   decimal.Decimal `gorm:"type:decimal(6,2);uniqueIndex;not null" json:"issue_number"`
	Title         string          `gorm:"size:500;not null" json:"title" validate:"max=500"`
	CurrentIssue  bool            `gorm:"index" json:"current_issue"`
	DatePublished *time.Time      `gorm:"type:date" json:"date_published,omitempty"`
}
