package application_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// MockStore is an in-memory domain.Store honoring the conditional-write
// semantics of CommitDecision. Error fields force failures for specific
// operations.
type MockStore struct {
	mu sync.Mutex

	users     map[string]identity.User
	expenses  map[string]expense.Expense
	approvals map[string][]approval.Approval
	events    []domain.Event

	CommitErr error
	EventErr  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		users:     make(map[string]identity.User),
		expenses:  make(map[string]expense.Expense),
		approvals: make(map[string][]approval.Approval),
	}
}

func (m *MockStore) CreateUser(_ context.Context, u *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *MockStore) User(_ context.Context, id string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUserNotFound, id)
	}
	return &u, nil
}

func (m *MockStore) CreateExpense(_ context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = *e
	return nil
}

func (m *MockStore) Expense(_ context.Context, id string) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", workflow.ErrExpenseNotFound, id)
	}
	return &e, nil
}

func (m *MockStore) ExpensesBySubmitter(_ context.Context, submitterID string) ([]expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []expense.Expense
	for _, e := range m.expenses {
		if e.SubmitterID == submitterID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) PendingExpenses(_ context.Context) ([]expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []expense.Expense
	for _, e := range m.expenses {
		if e.Status.IsPending() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) Expenses(_ context.Context) ([]expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []expense.Expense
	for _, e := range m.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) CommitDecision(_ context.Context, e *expense.Expense, a *approval.Approval, evt domain.Event) error {
	if m.CommitErr != nil {
		return m.CommitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.expenses[e.ID]
	if !ok || current.Version != e.Version-1 || !current.Status.IsPending() {
		return &workflow.TransitionError{ExpenseID: e.ID, FromStatus: current.Status.String(), Event: "commit"}
	}
	if m.EventErr != nil {
		// Nothing below ran, so the rollback semantics hold trivially.
		return m.EventErr
	}
	if len(m.events) > 0 {
		evt.PrevHash = m.events[len(m.events)-1].Hash
	}
	evt.Hash = evt.CalculateHash()
	m.expenses[e.ID] = *e
	m.approvals[e.ID] = append(m.approvals[e.ID], *a)
	m.events = append(m.events, evt)
	return nil
}

func (m *MockStore) Approvals(_ context.Context, expenseID string) ([]approval.Approval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]approval.Approval(nil), m.approvals[expenseID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) AppendEvent(_ context.Context, e domain.Event) error {
	if m.EventErr != nil {
		return m.EventErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MockStore) LastEvent(_ context.Context) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil, nil
	}
	e := m.events[len(m.events)-1]
	return &e, nil
}

func (m *MockStore) Events(_ context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...), nil
}

// fixedClock returns a clock that advances one second per call, so
// timestamps are deterministic yet strictly ordered.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
