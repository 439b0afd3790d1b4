package expense

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
)

// Expense is a reimbursement request owned by its submitter. Its status is
// the single source of truth for where the expense sits in the workflow and
// is only ever changed through the decision engine, guarded by the Version
// field for optimistic concurrency.
type Expense struct {
	ID          string    `json:"id"`
	SubmitterID string    `json:"submitter_id"`
	// SubmitterDepartment is denormalized at submission time so that
	// eligibility checks need no second user lookup.
	SubmitterDepartment string    `json:"submitter_department"`
	AmountCents         int64     `json:"amount_cents"`
	Currency            string    `json:"currency"`
	Description         string    `json:"description"`
	Status              Status    `json:"status"`
	Version             int64     `json:"version"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// New creates a pending expense for the given submitter.
func New(submitter *identity.User, amountCents int64, currency, description string, now time.Time) (*Expense, error) {
	if submitter == nil {
		return nil, fmt.Errorf("submitter cannot be nil")
	}
	e := &Expense{
		ID:                  uuid.NewString(),
		SubmitterID:         submitter.ID,
		SubmitterDepartment: submitter.Department,
		AmountCents:         amountCents,
		Currency:            strings.ToUpper(strings.TrimSpace(currency)),
		Description:         strings.TrimSpace(description),
		Status:              StatusPending,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the structural invariants of the expense.
func (e *Expense) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("expense ID cannot be empty")
	}
	if e.SubmitterID == "" {
		return fmt.Errorf("expense submitter cannot be empty")
	}
	if e.SubmitterDepartment == "" {
		return fmt.Errorf("expense submitter department cannot be empty")
	}
	if e.AmountCents <= 0 {
		return fmt.Errorf("expense amount must be positive, got %d", e.AmountCents)
	}
	if len(e.Currency) != 3 {
		return fmt.Errorf("expense currency must be a 3-letter code, got %q", e.Currency)
	}
	if e.Description == "" {
		return fmt.Errorf("expense description cannot be empty")
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("invalid expense status: %q", e.Status)
	}
	if e.Version < 1 {
		return fmt.Errorf("expense version must be at least 1, got %d", e.Version)
	}
	return nil
}

// IsDecidable returns true if the expense can still receive a decision.
func (e *Expense) IsDecidable() bool {
	return e.Status.IsPending()
}
