// Package issues decides which issue the home page shows.
package issues

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
	"gorm.io/gorm"
)

// ErrNoCurrentIssue is returned when no issue is flagged current.
var ErrNoCurrentIssue = fmt.Errorf("current issue: %w", store.ErrNotFound)

// Kind classifies how many issues are flagged current.
type Kind int

const (
	None Kind = iota
	One
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case One:
		return "one"
	case Ambiguous:
		return "ambiguous"
	}
	return "none"
}

// Current is the result of FindCurrent.
type Current struct {
	candidates []models.Issue
}

// Kind reports whether zero, one or several issues are flagged.
func (c Current) Kind() Kind {
	switch len(c.candidates) {
	case 0:
		return None
	case 1:
		return One
	}
	return Ambiguous
}

// Issue returns the issue to show: the only flagged one, or the one with
// the lowest id when several are flagged.
func (c Current) Issue() (models.Issue, error) {
	if len(c.candidates) == 0 {
		return models.Issue{}, ErrNoCurrentIssue
	}
	return c.candidates[0], nil
}

// Candidates returns every flagged issue, lowest id first.
func (c Current) Candidates() []models.Issue {
	return c.candidates
}

// FindCurrent queries every issue flagged current.
func FindCurrent(ctx context.Context, db *gorm.DB) (Current, error) {
	var flagged []models.Issue
	if err := db.WithContext(ctx).Where("current_issue = ?", true).Order("id").Find(&flagged).Error; err != nil {
		return Current{}, err
	}

	cur := Current{candidates: flagged}
	if cur.Kind() == Ambiguous {
		log.Warn().
			Uints("issue_ids", lo.Map(flagged, func(i models.Issue, _ int) uint { return i.ID })).
			Uint("chosen", flagged[0].ID).
			Msg("Several issues are flagged current")
	}
	return cur, nil
}
