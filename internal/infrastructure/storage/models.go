package storage

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
)

type userRecord struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Name       string `gorm:"not null"`
	Email      string `gorm:"uniqueIndex;not null"`
	Role       string `gorm:"type:varchar(16);not null"`
	Department string `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (userRecord) TableName() string { return "users" }

type expenseRecord struct {
	ID                  string `gorm:"primaryKey;type:varchar(36)"`
	SubmitterID         string `gorm:"type:varchar(36);not null;index"`
	SubmitterDepartment string `gorm:"not null"`
	AmountCents         int64  `gorm:"not null"`
	Currency            string `gorm:"type:varchar(3);not null"`
	Description         string `gorm:"type:text;not null"`
	Status              string `gorm:"type:varchar(16);not null;index"`
	Version             int64  `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (expenseRecord) TableName() string { return "expenses" }

type approvalRecord struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	ExpenseID  string `gorm:"type:varchar(36);not null;index"`
	ApproverID string `gorm:"type:varchar(36);not null;index"`
	Verdict    string `gorm:"type:varchar(16);not null"`
	Comment    string `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (approvalRecord) TableName() string { return "approvals" }

type eventRecord struct {
	Seq       int64  `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Timestamp time.Time
	Action    string `gorm:"not null"`
	Actor     string `gorm:"not null"`
	Metadata  string `gorm:"type:text"`
	PrevHash  string `gorm:"type:varchar(64)"`
	Hash      string `gorm:"type:varchar(64);not null"`
}

func (eventRecord) TableName() string { return "audit_events" }

func toUserRecord(u *identity.User) *userRecord {
	return &userRecord{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role.String(),
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func fromUserRecord(rec *userRecord) (*identity.User, error) {
	role, err := identity.ParseRole(rec.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", rec.ID, err)
	}
	return &identity.User{
		ID:         rec.ID,
		Name:       rec.Name,
		Email:      rec.Email,
		Role:       role,
		Department: rec.Department,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

func toExpenseRecord(e *expense.Expense) *expenseRecord {
	return &expenseRecord{
		ID:                  e.ID,
		SubmitterID:         e.SubmitterID,
		SubmitterDepartment: e.SubmitterDepartment,
		AmountCents:         e.AmountCents,
		Currency:            e.Currency,
		Description:         e.Description,
		Status:              e.Status.String(),
		Version:             e.Version,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func fromExpenseRecord(rec *expenseRecord) (*expense.Expense, error) {
	status, err := expense.ParseStatus(rec.Status)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", rec.ID, err)
	}
	return &expense.Expense{
		ID:                  rec.ID,
		SubmitterID:         rec.SubmitterID,
		SubmitterDepartment: rec.SubmitterDepartment,
		AmountCents:         rec.AmountCents,
		Currency:            rec.Currency,
		Description:         rec.Description,
		Status:              status,
		Version:             rec.Version,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}, nil
}

func toApprovalRecord(a *approval.Approval) *approvalRecord {
	return &approvalRecord{
		ID:         a.ID,
		ExpenseID:  a.ExpenseID,
		ApproverID: a.ApproverID,
		Verdict:    a.Verdict.String(),
		Comment:    a.Comment,
		CreatedAt:  a.CreatedAt,
	}
}

func fromApprovalRecord(rec *approvalRecord) (*approval.Approval, error) {
	verdict, err := approval.ParseVerdict(rec.Verdict)
	if err != nil {
		return nil, fmt.Errorf("approval %s: %w", rec.ID, err)
	}
	return &approval.Approval{
		ID:         rec.ID,
		ExpenseID:  rec.ExpenseID,
		ApproverID: rec.ApproverID,
		Verdict:    verdict,
		Comment:    rec.Comment,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func toEventRecord(e *domain.Event) (*eventRecord, error) {
	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return nil, err
	}
	return &eventRecord{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Action:    e.Action,
		Actor:     e.Actor,
		Metadata:  metadata,
		PrevHash:  e.PrevHash,
		Hash:      e.Hash,
	}, nil
}

func fromEventRecord(rec *eventRecord) (*domain.Event, error) {
	metadata, err := decodeMetadata(rec.Metadata)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", rec.ID, err)
	}
	return &domain.Event{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Action:    rec.Action,
		Actor:     rec.Actor,
		Metadata:  metadata,
		PrevHash:  rec.PrevHash,
		Hash:      rec.Hash,
	}, nil
}
