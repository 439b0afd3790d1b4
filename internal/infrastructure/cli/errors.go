package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var transErr *workflow.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("Expense '%s' is '%s'; only pending expenses accept decisions", transErr.ExpenseID, transErr.FromStatus),
			err,
		)
	}

	var eligErr *workflow.EligibilityError
	if errors.As(err, &eligErr) {
		return NewCLIError(
			eligErr.Error(),
			"A different approver must act on this expense",
			err,
		)
	}

	switch {
	case errors.Is(err, workflow.ErrInvalidDecision):
		return NewCLIError("invalid decision", "Use 'approved' or 'rejected'", err)
	case errors.Is(err, workflow.ErrExpenseNotFound):
		return NewCLIError("expense not found", "Check the expense ID", err)
	case errors.Is(err, workflow.ErrUserNotFound):
		return NewCLIError("user not found", "Run 'expenseflow seed' to create demo users", err)
	case errors.Is(err, workflow.ErrStoreUnavailable):
		return NewCLIError("entity store unavailable", "Check the database path and retry", err)
	}

	return err
}
