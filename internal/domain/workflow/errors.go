package workflow

import "errors"

// Domain errors for the approval workflow. The first three are deterministic
// business-rule rejections and must never be retried; ErrStoreUnavailable is
// the only transient class.
var (
	// ErrUnauthorized indicates the acting user is not eligible to decide.
	ErrUnauthorized = errors.New("user is not authorized to decide on this expense")

	// ErrInvalidState indicates the expense is not in a decidable state,
	// including the case of losing a concurrent decision race.
	ErrInvalidState = errors.New("expense is not in a decidable state")

	// ErrInvalidDecision indicates the decision is outside the closed verdict set.
	ErrInvalidDecision = errors.New("decision is not a valid verdict")

	// ErrStoreUnavailable indicates a transient entity-store failure.
	ErrStoreUnavailable = errors.New("entity store unavailable")

	// ErrExpenseNotFound indicates the expense does not exist.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrHistoryAnomaly indicates the approval history violates the
	// one-decision-closes-the-case policy.
	ErrHistoryAnomaly = errors.New("approval history is inconsistent")
)

// EligibilityError explains why a user may not decide on an expense.
type EligibilityError struct {
	UserID    string
	ExpenseID string
	RuleID    string
	Reason    string
}

func (e *EligibilityError) Error() string {
	return "user " + e.UserID + " may not decide on expense " + e.ExpenseID + ": " + e.Reason
}

// Is allows errors.Is to work with EligibilityError.
func (e *EligibilityError) Is(target error) bool {
	return target == ErrUnauthorized
}

// TransitionError explains why a status transition is not allowed.
type TransitionError struct {
	ExpenseID  string
	FromStatus string
	Event      string
}

func (e *TransitionError) Error() string {
	return "cannot apply '" + e.Event + "' to expense " + e.ExpenseID + " in status '" + e.FromStatus + "'"
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidState
}

// StoreError wraps a transient entity-store failure with the failed operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store operation '" + e.Op + "' failed: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to work with StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
