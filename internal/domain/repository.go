package domain

import (
	"context"

	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
)

// Store is the transactional entity store behind the approval workflow.
// Implementations translate their own failure modes into the workflow error
// taxonomy: not-found sentinels for missing rows, StoreError for transient
// faults, and ErrInvalidState when a conditional write loses a race.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, u *identity.User) error
	// User loads a user by ID, or ErrUserNotFound.
	User(ctx context.Context, id string) (*identity.User, error)

	// CreateExpense persists a new expense.
	CreateExpense(ctx context.Context, e *expense.Expense) error
	// Expense loads an expense by ID, or ErrExpenseNotFound.
	Expense(ctx context.Context, id string) (*expense.Expense, error)
	// ExpensesBySubmitter lists a submitter's expenses, newest first.
	ExpensesBySubmitter(ctx context.Context, submitterID string) ([]expense.Expense, error)
	// PendingExpenses lists all expenses still awaiting a decision.
	PendingExpenses(ctx context.Context) ([]expense.Expense, error)
	// Expenses lists every expense, oldest first.
	Expenses(ctx context.Context) ([]expense.Expense, error)

	// CommitDecision applies a decided expense, appends its approval, and
	// appends the audit event in one atomic transaction. The caller passes
	// the expense with its new status and an incremented version; the write
	// is conditioned on the stored row still holding the previous version in
	// pending status. The event arrives unchained; the store links it onto
	// the current log head and hashes it inside the transaction. A losing
	// concurrent writer receives ErrInvalidState and nothing is persisted.
	CommitDecision(ctx context.Context, e *expense.Expense, a *approval.Approval, evt Event) error
	// Approvals lists an expense's approvals ordered by creation time ascending.
	Approvals(ctx context.Context, expenseID string) ([]approval.Approval, error)

	// AppendEvent appends an audit event to the operational log.
	AppendEvent(ctx context.Context, e Event) error
	// LastEvent returns the most recent audit event, or nil if none exist.
	LastEvent(ctx context.Context) (*Event, error)
	// Events lists all audit events in append order.
	Events(ctx context.Context) ([]Event, error)
}
