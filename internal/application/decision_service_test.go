package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/expenseflow/internal/application"
	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/authz"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

type fixture struct {
	store     *MockStore
	expenses  *application.ExpenseService
	decisions *application.DecisionService

	submitter *identity.User
	manager   *identity.User
	admin     *identity.User
	outsider  *identity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := NewMockStore()
	clock := fixedClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	audit := application.NewAuditService(store, clock)

	f := &fixture{
		store:     store,
		expenses:  application.NewExpenseService(store, audit, clock),
		decisions: application.NewDecisionService(store, authz.NewResolver(), audit, clock),
	}

	ctx := context.Background()
	mk := func(name string, role identity.Role, dept string) *identity.User {
		u, err := identity.NewUser(name, name+"@example.com", role, dept, clock())
		if err != nil {
			t.Fatal(err)
		}
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
		return u
	}
	f.submitter = mk("ada", identity.RoleEmployee, "Sales")
	f.manager = mk("grace", identity.RoleManager, "Sales")
	f.admin = mk("root", identity.RoleAdmin, "Operations")
	f.outsider = mk("lin", identity.RoleManager, "Engineering")
	return f
}

func (f *fixture) submit(t *testing.T) *expense.Expense {
	t.Helper()
	exp, err := f.expenses.Submit(context.Background(), f.submitter.ID, 4200, "USD", "conference travel")
	if err != nil {
		t.Fatal(err)
	}
	return exp
}

func TestDecideApproves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	decided, record, err := f.decisions.Decide(ctx, exp.ID, f.manager.ID, approval.VerdictApproved, "ok")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decided.Status != expense.StatusApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}
	if decided.Version != exp.Version+1 {
		t.Errorf("version = %d, want %d", decided.Version, exp.Version+1)
	}
	if record.Verdict != approval.VerdictApproved {
		t.Errorf("verdict = %q", record.Verdict)
	}
	if record.ApproverID != f.manager.ID {
		t.Errorf("approver = %q", record.ApproverID)
	}

	history, err := f.decisions.History(ctx, exp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d records, want 1", len(history))
	}
	if history[0].Verdict.Status() != decided.Status {
		t.Error("history verdict must match final status")
	}
	if history[0].CreatedAt.Before(exp.CreatedAt) {
		t.Error("approval timestamp must not precede expense creation")
	}
	if err := f.decisions.VerifyHistory(ctx, exp.ID); err != nil {
		t.Errorf("VerifyHistory: %v", err)
	}
}

func TestDecideRejects(t *testing.T) {
	f := newFixture(t)
	exp := f.submit(t)

	decided, _, err := f.decisions.Decide(context.Background(), exp.ID, f.admin.ID, approval.VerdictRejected, "missing receipt")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != expense.StatusRejected {
		t.Errorf("status = %q, want rejected", decided.Status)
	}
}

func TestDecideSelfApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	_, _, err := f.decisions.Decide(ctx, exp.ID, f.submitter.ID, approval.VerdictApproved, "")
	if !errors.Is(err, workflow.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	history, _ := f.decisions.History(ctx, exp.ID)
	if len(history) != 0 {
		t.Error("failed decision must append no approval")
	}
}

func TestDecideWrongDepartment(t *testing.T) {
	f := newFixture(t)
	exp := f.submit(t)

	_, _, err := f.decisions.Decide(context.Background(), exp.ID, f.outsider.ID, approval.VerdictApproved, "")
	if !errors.Is(err, workflow.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDecideTerminalExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	if _, _, err := f.decisions.Decide(ctx, exp.ID, f.manager.ID, approval.VerdictApproved, ""); err != nil {
		t.Fatal(err)
	}

	_, _, err := f.decisions.Decide(ctx, exp.ID, f.admin.ID, approval.VerdictRejected, "")
	if !errors.Is(err, workflow.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}

	history, _ := f.decisions.History(ctx, exp.ID)
	if len(history) != 1 {
		t.Errorf("history has %d records, want 1", len(history))
	}
}

func TestDecideInvalidVerdict(t *testing.T) {
	f := newFixture(t)
	exp := f.submit(t)

	_, _, err := f.decisions.Decide(context.Background(), exp.ID, f.manager.ID, approval.Verdict("pending"), "")
	if !errors.Is(err, workflow.ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestDecideConcurrentLoser(t *testing.T) {
	f := newFixture(t)
	exp := f.submit(t)

	// Simulate losing the read-check-write race: the conditional commit
	// fails because another writer already decided.
	f.store.CommitErr = &workflow.TransitionError{ExpenseID: exp.ID, FromStatus: "approved", Event: "commit"}

	_, _, err := f.decisions.Decide(context.Background(), exp.ID, f.manager.ID, approval.VerdictRejected, "")
	if !errors.Is(err, workflow.ErrInvalidState) {
		t.Errorf("losing writer must receive ErrInvalidState, got %v", err)
	}
}

func TestDecideAuditFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	// The audit event is part of the commit transaction; if it cannot be
	// appended the decision must not be persisted either.
	f.store.EventErr = errors.New("audit append fail")

	_, _, err := f.decisions.Decide(ctx, exp.ID, f.manager.ID, approval.VerdictApproved, "")
	if err == nil {
		t.Fatal("expected Decide to fail when the audit append fails")
	}

	got, err := f.store.Expense(ctx, exp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != expense.StatusPending || got.Version != exp.Version {
		t.Errorf("expense mutated despite failed commit: status=%q version=%d", got.Status, got.Version)
	}
	history, _ := f.decisions.History(ctx, exp.ID)
	if len(history) != 0 {
		t.Errorf("got %d approvals, want 0", len(history))
	}
}

func TestDecideAppendsAuditEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	if _, _, err := f.decisions.Decide(ctx, exp.ID, f.manager.ID, approval.VerdictApproved, ""); err != nil {
		t.Fatal(err)
	}

	events, err := f.store.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// One event for the submission, one for the decision, chained.
	if len(events) != 2 {
		t.Fatalf("got %d audit events, want 2", len(events))
	}
	if events[1].Action != "expense.decided" {
		t.Errorf("last event action = %q", events[1].Action)
	}
	if events[1].PrevHash != events[0].Hash {
		t.Error("decision event must chain onto the submission event")
	}
}

func TestDecideUnknownExpense(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.decisions.Decide(context.Background(), "nope", f.manager.ID, approval.VerdictApproved, "")
	if !errors.Is(err, workflow.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestCanApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	ok, err := f.decisions.CanApprove(ctx, f.manager.ID, exp.ID)
	if err != nil || !ok {
		t.Errorf("manager should be eligible: %v %v", ok, err)
	}
	ok, err = f.decisions.CanApprove(ctx, f.submitter.ID, exp.ID)
	if err != nil || ok {
		t.Errorf("submitter must not be eligible: %v %v", ok, err)
	}
}

func TestVerifyHistoryAnomaly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := f.submit(t)

	if _, _, err := f.decisions.Decide(ctx, exp.ID, f.manager.ID, approval.VerdictApproved, ""); err != nil {
		t.Fatal(err)
	}

	// Force a second record behind the engine's back.
	extra, err := approval.New(exp.ID, f.admin.ID, approval.VerdictRejected, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	f.store.approvals[exp.ID] = append(f.store.approvals[exp.ID], *extra)

	err = f.decisions.VerifyHistory(ctx, exp.ID)
	if !errors.Is(err, workflow.ErrHistoryAnomaly) {
		t.Errorf("expected ErrHistoryAnomaly, got %v", err)
	}
}
