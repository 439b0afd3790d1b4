package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
	"github.com/felixgeelhaar/expenseflow/internal/domain/approval"
	"github.com/felixgeelhaar/expenseflow/internal/domain/authz"
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// DecisionService is the transition engine: it validates a decision against
// the current expense status and the eligibility policy, applies the status
// change, and appends the approval record in one transaction.
type DecisionService struct {
	store    domain.Store
	resolver *authz.Resolver
	audit    *AuditService
	clock    Clock
}

func NewDecisionService(store domain.Store, resolver *authz.Resolver, audit *AuditService, clock Clock) *DecisionService {
	if clock == nil {
		clock = time.Now
	}
	return &DecisionService{store: store, resolver: resolver, audit: audit, clock: clock}
}

// Decide records one approver's verdict on a pending expense. On success the
// returned expense carries its final status and exactly one new approval
// exists. A decision on a terminal expense fails with ErrInvalidState, an
// ineligible actor fails with ErrUnauthorized, and a verdict outside the
// closed set fails with ErrInvalidDecision. None of these are retried.
func (s *DecisionService) Decide(ctx context.Context, expenseID, actorID string, verdict approval.Verdict, comment string) (*expense.Expense, *approval.Approval, error) {
	if !verdict.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", workflow.ErrInvalidDecision, verdict)
	}

	exp, err := s.store.Expense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.store.User(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	if !exp.IsDecidable() {
		return nil, nil, &workflow.TransitionError{
			ExpenseID:  exp.ID,
			FromStatus: exp.Status.String(),
			Event:      workflow.EventFor(verdict),
		}
	}

	if err := s.resolver.Explain(actor, exp); err != nil {
		return nil, nil, err
	}

	machine, err := workflow.NewDecisionMachine(exp.Status, exp.ID, func(string, string) bool {
		// Re-verify at the moment the transition fires; the resolver is
		// pure, so a second consult is safe.
		return s.resolver.CanApprove(actor, exp)
	})
	if err != nil {
		return nil, nil, err
	}
	if err := machine.Transition(workflow.EventFor(verdict)); err != nil {
		return nil, nil, err
	}

	now := s.clock()
	record, err := approval.New(exp.ID, actor.ID, verdict, comment, now)
	if err != nil {
		return nil, nil, err
	}

	decided := *exp
	decided.Status = machine.Current()
	decided.Version = exp.Version + 1
	decided.UpdatedAt = now

	evt := s.audit.NewEvent("expense.decided", actor.ID, map[string]string{
		"expense_id":  exp.ID,
		"approval_id": record.ID,
		"verdict":     verdict.String(),
		"status":      decided.Status.String(),
	})

	// Status update, approval, and audit event land atomically; a
	// concurrent winner makes this fail with ErrInvalidState and nothing
	// is persisted.
	if err := s.store.CommitDecision(ctx, &decided, record, evt); err != nil {
		return nil, nil, err
	}

	return &decided, record, nil
}

// CanApprove reports whether the user may decide on the expense right now.
func (s *DecisionService) CanApprove(ctx context.Context, userID, expenseID string) (bool, error) {
	exp, err := s.store.Expense(ctx, expenseID)
	if err != nil {
		return false, err
	}
	user, err := s.store.User(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.resolver.CanApprove(user, exp), nil
}

// History returns the expense's approvals ordered by creation time
// ascending. It reads through to the store on every call.
func (s *DecisionService) History(ctx context.Context, expenseID string) ([]approval.Approval, error) {
	if _, err := s.store.Expense(ctx, expenseID); err != nil {
		return nil, err
	}
	return s.store.Approvals(ctx, expenseID)
}

// VerifyHistory checks an expense's approval history against the
// one-decision-closes-the-case policy and the stored status.
func (s *DecisionService) VerifyHistory(ctx context.Context, expenseID string) error {
	exp, err := s.store.Expense(ctx, expenseID)
	if err != nil {
		return err
	}
	history, err := s.store.Approvals(ctx, expenseID)
	if err != nil {
		return err
	}

	if len(history) > 1 {
		return fmt.Errorf("%w: expense %s has %d approvals", workflow.ErrHistoryAnomaly, exp.ID, len(history))
	}
	if len(history) == 1 {
		if exp.Status.IsPending() {
			return fmt.Errorf("%w: expense %s is pending but has an approval", workflow.ErrHistoryAnomaly, exp.ID)
		}
		if got := history[0].Verdict.Status(); got != exp.Status {
			return fmt.Errorf("%w: expense %s status %q does not match verdict %q",
				workflow.ErrHistoryAnomaly, exp.ID, exp.Status, history[0].Verdict)
		}
	}
	if len(history) == 0 && exp.Status.IsTerminal() {
		return fmt.Errorf("%w: expense %s is %s without an approval", workflow.ErrHistoryAnomaly, exp.ID, exp.Status)
	}
	return nil
}
