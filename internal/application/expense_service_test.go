package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exp, err := f.expenses.Submit(ctx, f.submitter.ID, 9900, "usd", "laptop stand")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if exp.Status != expense.StatusPending {
		t.Errorf("status = %q, want pending", exp.Status)
	}
	if exp.SubmitterDepartment != f.submitter.Department {
		t.Error("submitter department not captured")
	}

	// Submission is audited.
	events, err := f.store.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Action != "expense.submitted" {
		t.Errorf("expected one expense.submitted event, got %v", events)
	}
}

func TestSubmitUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.expenses.Submit(context.Background(), "ghost", 100, "USD", "x")
	if !errors.Is(err, workflow.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmitInvalidAmount(t *testing.T) {
	f := newFixture(t)

	if _, err := f.expenses.Submit(context.Background(), f.submitter.ID, -10, "USD", "x"); err == nil {
		t.Error("negative amount should be rejected")
	}
}

func TestListForSubmitter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t)
	second := f.submit(t)

	list, err := f.expenses.ListForSubmitter(ctx, f.submitter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d expenses, want 2", len(list))
	}
	// Newest first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("expenses not ordered newest first")
	}
}

func TestListPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t)

	pending, err := f.expenses.ListPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("got %d pending expenses, want 1", len(pending))
	}
}
