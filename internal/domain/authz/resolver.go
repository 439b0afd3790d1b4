package authz

import (
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
)

// Resolver decides whether a user is an eligible approver for an expense at
// its current state. It is pure: same inputs, same answer, no side effects,
// so the decision engine may consult it more than once per operation.
type Resolver struct {
	rules []Rule
}

// NewResolver builds a resolver with the closed default rule set. Rule order
// matters for Explain: the first objection wins.
func NewResolver() *Resolver {
	return &Resolver{
		rules: []Rule{
			terminalStateRule{},
			selfApprovalRule{},
			approverRoleRule{},
			departmentRule{},
		},
	}
}

// CanApprove reports whether the user may decide on the expense right now.
func (r *Resolver) CanApprove(user *identity.User, exp *expense.Expense) bool {
	return r.Explain(user, exp) == nil
}

// Explain returns nil when the user is eligible, or the typed refusal of the
// first rule that objects.
func (r *Resolver) Explain(user *identity.User, exp *expense.Expense) error {
	if user == nil || exp == nil {
		return &missingInputError{}
	}
	for _, rule := range r.rules {
		if err := rule.Check(user, exp); err != nil {
			return err
		}
	}
	return nil
}

// Rules returns the identifiers of the active rule set.
func (r *Resolver) Rules() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}

type missingInputError struct{}

func (*missingInputError) Error() string {
	return "eligibility check requires both a user and an expense"
}
