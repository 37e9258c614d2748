package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/models"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityIssue = "issue"

func (s *Store) checkIssue(issue *models.Issue) error {
	if err := s.check(entityIssue, issue); err != nil {
		return err
	}
	if _, _, err := presentation.SplitIssueNumber(issue.IssueNumber); err != nil {
		return violation(entityIssue, err.Error(), "issue_number")
	}
	return nil
}

// CreateIssue inserts issue. Creating it as current clears the flag on
// every other issue.
func (s *Store) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if err := s.checkIssue(issue); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Issue{}, entityIssue, 0, []string{"issue_number"}, issue.IssueNumber); err != nil {
			return err
		}
		if err := tx.Create(issue).Error; err != nil {
			return translate(err, entityIssue, "issue_number")
		}
		if issue.CurrentIssue {
			return clearCurrentExcept(tx, issue.ID)
		}
		return nil
	})
}

func (s *Store) GetIssue(ctx context.Context, id uint) (models.Issue, error) {
	var issue models.Issue
	err := first(s.conn(ctx), &issue, entityIssue, id)
	return issue, err
}

func (s *Store) GetIssueByNumber(ctx context.Context, number decimal.Decimal) (models.Issue, error) {
	var issue models.Issue
	if err := s.conn(ctx).Where("issue_number = ?", number).First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return issue, notFound(entityIssue, number)
		}
		return issue, err
	}
	return issue, nil
}

// ListIssues returns every issue, newest number first.
func (s *Store) ListIssues(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.conn(ctx).Order("issue_number DESC").Find(&issues).Error
	return issues, err
}

func (s *Store) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	if err := s.checkIssue(issue); err != nil {
		return err
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Issue{}, entityIssue, issue.ID); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Issue{}, entityIssue, issue.ID, []string{"issue_number"}, issue.IssueNumber); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(issue).Error; err != nil {
			return translate(err, entityIssue, "issue_number")
		}
		if issue.CurrentIssue {
			return clearCurrentExcept(tx, issue.ID)
		}
		return nil
	})
}

// SetCurrentIssue flags id as the current issue and clears the flag on
// all others in one transaction.
func (s *Store) SetCurrentIssue(ctx context.Context, id uint) (models.Issue, error) {
	var issue models.Issue
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &issue, entityIssue, id); err != nil {
			return err
		}
		if err := tx.Model(&issue).Update("current_issue", true).Error; err != nil {
			return err
		}
		issue.CurrentIssue = true
		return clearCurrentExcept(tx, id)
	})
	return issue, err
}

func clearCurrentExcept(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Issue{}).
		Where("current_issue = ? AND id <> ?", true, id).
		Update("current_issue", false).Error
}

// DeleteIssue deletes the issue; its posts stay, detached from any issue.
func (s *Store) DeleteIssue(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRow(tx, "issues", entityIssue, &models.Issue{}, id)
	})
}
