package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// Store is the sqlite-backed entity store. Reads go through a bounded retry
// for transient driver failures; writes are never retried so the error
// taxonomy stays deterministic for callers.
type Store struct {
	db          *gorm.DB
	retryConfig retry.Config
}

// Open connects to the sqlite database at path and returns a Store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{
		db: db,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}, nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&userRecord{}, &expenseRecord{}, &approvalRecord{}, &eventRecord{}); err != nil {
		return &workflow.StoreError{Op: "migrate", Err: err}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(toUserRecord(u)).Error; err != nil {
		return &workflow.StoreError{Op: "create user", Err: err}
	}
	return nil
}

func (s *Store) User(ctx context.Context, id string) (*identity.User, error) {
	retryer := retry.New[*identity.User](s.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (*identity.User, error) {
		var rec userRecord
		if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", workflow.ErrUserNotFound, id)
			}
			return nil, &workflow.StoreError{Op: "load user", Err: err}
		}
		return fromUserRecord(&rec)
	})
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(toExpenseRecord(e)).Error; err != nil {
		return &workflow.StoreError{Op: "create expense", Err: err}
	}
	return nil
}

func (s *Store) Expense(ctx context.Context, id string) (*expense.Expense, error) {
	retryer := retry.New[*expense.Expense](s.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (*expense.Expense, error) {
		var rec expenseRecord
		if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", workflow.ErrExpenseNotFound, id)
			}
			return nil, &workflow.StoreError{Op: "load expense", Err: err}
		}
		return fromExpenseRecord(&rec)
	})
}

func (s *Store) ExpensesBySubmitter(ctx context.Context, submitterID string) ([]expense.Expense, error) {
	var recs []expenseRecord
	err := s.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, &workflow.StoreError{Op: "list expenses", Err: err}
	}
	return expensesFromRecords(recs)
}

func (s *Store) PendingExpenses(ctx context.Context) ([]expense.Expense, error) {
	var recs []expenseRecord
	err := s.db.WithContext(ctx).
		Where("status = ?", expense.StatusPending.String()).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, &workflow.StoreError{Op: "list pending expenses", Err: err}
	}
	return expensesFromRecords(recs)
}

func (s *Store) Expenses(ctx context.Context) ([]expense.Expense, error) {
	var recs []expenseRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, &workflow.StoreError{Op: "list all expenses", Err: err}
	}
	return expensesFromRecords(recs)
}

func expensesFromRecords(recs []expenseRecord) ([]expense.Expense, error) {
	out := make([]expense.Expense, 0, len(recs))
	for i := range recs {
		e, err := fromExpenseRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

// CommitDecision applies the decided expense, its approval, and the audit
// event atomically. The status update is conditioned on the row still holding
// the previous version in pending status; zero affected rows means a
// concurrent writer won the race and the whole transaction rolls back with
// ErrInvalidState. The event is chained onto the log head and hashed inside
// the transaction so the audit log never diverges from the decision.
func (s *Store) CommitDecision(ctx context.Context, e *expense.Expense, a *approval.Approval, evt domain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&expenseRecord{}).
			Where("id = ? AND version = ? AND status = ?", e.ID, e.Version-1, expense.StatusPending.String()).
			Updates(map[string]interface{}{
				"status":     e.Status.String(),
				"version":    e.Version,
				"updated_at": e.UpdatedAt,
			})
		if res.Error != nil {
			return &workflow.StoreError{Op: "update expense status", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			var current expenseRecord
			from := "unknown"
			if err := tx.First(&current, "id = ?", e.ID).Error; err == nil {
				from = current.Status
			}
			return &workflow.TransitionError{
				ExpenseID:  e.ID,
				FromStatus: from,
				Event:      "commit",
			}
		}
		if err := tx.Create(toApprovalRecord(a)).Error; err != nil {
			return &workflow.StoreError{Op: "append approval", Err: err}
		}

		var head eventRecord
		if err := tx.Order("seq DESC").First(&head).Error; err == nil {
			evt.PrevHash = head.Hash
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return &workflow.StoreError{Op: "load audit head", Err: err}
		}
		evt.Hash = evt.CalculateHash()
		rec, err := toEventRecord(&evt)
		if err != nil {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			return &workflow.StoreError{Op: "append audit event", Err: err}
		}
		return nil
	})
	return err
}

func (s *Store) Approvals(ctx context.Context, expenseID string) ([]approval.Approval, error) {
	retryer := retry.New[[]approval.Approval](s.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) ([]approval.Approval, error) {
		var recs []approvalRecord
		err := s.db.WithContext(ctx).
			Where("expense_id = ?", expenseID).
			Order("created_at ASC").
			Find(&recs).Error
		if err != nil {
			return nil, &workflow.StoreError{Op: "list approvals", Err: err}
		}
		out := make([]approval.Approval, 0, len(recs))
		for i := range recs {
			a, err := fromApprovalRecord(&recs[i])
			if err != nil {
				return nil, err
			}
			out = append(out, *a)
		}
		return out, nil
	})
}

func (s *Store) AppendEvent(ctx context.Context, e domain.Event) error {
	rec, err := toEventRecord(&e)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return &workflow.StoreError{Op: "append event", Err: err}
	}
	return nil
}

func (s *Store) LastEvent(ctx context.Context) (*domain.Event, error) {
	var rec eventRecord
	err := s.db.WithContext(ctx).Order("seq DESC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &workflow.StoreError{Op: "load last event", Err: err}
	}
	return fromEventRecord(&rec)
}

func (s *Store) Events(ctx context.Context) ([]domain.Event, error) {
	var recs []eventRecord
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&recs).Error; err != nil {
		return nil, &workflow.StoreError{Op: "list events", Err: err}
	}
	out := make([]domain.Event, 0, len(recs))
	for i := range recs {
		e, err := fromEventRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func encodeMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode event metadata: %w", err)
	}
	return string(data), nil
}

func decodeMetadata(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode event metadata: %w", err)
	}
	return m, nil
}
