package application

import (
	"context"
	"strconv"
	"time"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
)

// Clock supplies the current time. Injected so that timestamp-sensitive
// behavior is deterministic under test.
type Clock func() time.Time

// ExpenseService handles submission and retrieval of expenses. Submission is
// the only place an expense status is assigned directly; every later status
// change goes through the DecisionService.
type ExpenseService struct {
	store domain.Store
	audit *AuditService
	clock Clock
}

func NewExpenseService(store domain.Store, audit *AuditService, clock Clock) *ExpenseService {
	if clock == nil {
		clock = time.Now
	}
	return &ExpenseService{store: store, audit: audit, clock: clock}
}

// Submit creates a pending expense for the submitter.
func (s *ExpenseService) Submit(ctx context.Context, submitterID string, amountCents int64, currency, description string) (*expense.Expense, error) {
	submitter, err := s.store.User(ctx, submitterID)
	if err != nil {
		return nil, err
	}

	exp, err := expense.New(submitter, amountCents, currency, description, s.clock())
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, exp); err != nil {
		return nil, err
	}

	if err := s.audit.Log(ctx, "expense.submitted", submitterID, map[string]string{
		"expense_id":   exp.ID,
		"amount_cents": strconv.FormatInt(exp.AmountCents, 10),
		"currency":     exp.Currency,
	}); err != nil {
		return nil, err
	}

	return exp, nil
}

// Get loads a single expense.
func (s *ExpenseService) Get(ctx context.Context, id string) (*expense.Expense, error) {
	return s.store.Expense(ctx, id)
}

// ListForSubmitter lists a submitter's expenses, newest first.
func (s *ExpenseService) ListForSubmitter(ctx context.Context, submitterID string) ([]expense.Expense, error) {
	if _, err := s.store.User(ctx, submitterID); err != nil {
		return nil, err
	}
	return s.store.ExpensesBySubmitter(ctx, submitterID)
}

// ListPending lists all expenses awaiting a decision.
func (s *ExpenseService) ListPending(ctx context.Context) ([]expense.Expense, error) {
	return s.store.PendingExpenses(ctx)
}
