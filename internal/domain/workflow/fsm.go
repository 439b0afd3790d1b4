package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
)

// Events accepted by the decision machine.
const (
	EventApprove = "approve"
	EventReject  = "reject"
)

// EventFor maps a verdict onto the machine event that applies it.
func EventFor(v approval.Verdict) string {
	if v == approval.VerdictRejected {
		return EventReject
	}
	return EventApprove
}

// DecisionContext carries the data the machine guard needs.
type DecisionContext struct {
	ExpenseID string
	Guard     func(expenseID string, event string) bool
}

// DecisionMachine enforces the legal expense transitions: a pending expense
// moves to approved or rejected, and terminal states have no outgoing edges.
type DecisionMachine struct {
	expenseID   string
	interpreter *statekit.Interpreter[DecisionContext]
}

// NewDecisionMachine builds a machine positioned at the expense's current
// status. The guard is consulted before either decision event fires; a nil
// guard allows everything.
func NewDecisionMachine(initial expense.Status, expenseID string, guard func(string, string) bool) (*DecisionMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("invalid initial status: %q", initial)
	}
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[DecisionContext]("expense-decision").
		WithInitial(statekit.StateID(initial)).
		WithContext(DecisionContext{
			ExpenseID: expenseID,
			Guard:     guard,
		}).
		WithGuard("eligibilityGuard", func(ctx DecisionContext, e statekit.Event) bool {
			return ctx.Guard(ctx.ExpenseID, string(e.Type))
		})

	builder.State(statekit.StateID(expense.StatusPending)).
		On(EventApprove).Target(statekit.StateID(expense.StatusApproved)).Guard("eligibilityGuard").
		On(EventReject).Target(statekit.StateID(expense.StatusRejected)).Guard("eligibilityGuard").
		Done()

	// Terminal states: no outgoing transitions.
	builder.State(statekit.StateID(expense.StatusApproved)).Done()
	builder.State(statekit.StateID(expense.StatusRejected)).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build decision machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &DecisionMachine{expenseID: expenseID, interpreter: interpreter}, nil
}

// Transition fires the event and reports whether the machine moved. In
// statekit a missing transition or a failed guard both leave the state
// unchanged, so an unchanged state is reported as a TransitionError.
func (m *DecisionMachine) Transition(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := m.Current()

	if before != after {
		return nil
	}

	return &TransitionError{
		ExpenseID:  m.expenseID,
		FromStatus: string(before),
		Event:      event,
	}
}

// Current returns the status the machine currently sits in.
func (m *DecisionMachine) Current() expense.Status {
	return expense.Status(m.interpreter.State().Value)
}
