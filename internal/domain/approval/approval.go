package approval

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Approval is one approver's recorded decision on one expense. Records are
// append-only: once written they are never edited or deleted, forming the
// permanent audit trail of the expense.
type Approval struct {
	ID         string    `json:"id"`
	ExpenseID  string    `json:"expense_id"`
	ApproverID string    `json:"approver_id"`
	Verdict    Verdict   `json:"verdict"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a validated approval record with a fresh identifier.
func New(expenseID, approverID string, verdict Verdict, comment string, now time.Time) (*Approval, error) {
	a := &Approval{
		ID:         uuid.NewString(),
		ExpenseID:  expenseID,
		ApproverID: approverID,
		Verdict:    verdict,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the structural invariants of the approval.
func (a *Approval) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("approval ID cannot be empty")
	}
	if a.ExpenseID == "" {
		return fmt.Errorf("approval expense ID cannot be empty")
	}
	if a.ApproverID == "" {
		return fmt.Errorf("approval approver ID cannot be empty")
	}
	if !a.Verdict.IsValid() {
		return fmt.Errorf("invalid verdict: %q", a.Verdict)
	}
	return nil
}
