package authz

import (
	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// Rule is one constraint of the closed eligibility policy. Check returns nil
// when the rule has no objection and an EligibilityError otherwise.
type Rule interface {
	ID() string
	Check(user *identity.User, exp *expense.Expense) error
}

func refusal(ruleID string, user *identity.User, exp *expense.Expense, reason string) error {
	return &workflow.EligibilityError{
		UserID:    user.ID,
		ExpenseID: exp.ID,
		RuleID:    ruleID,
		Reason:    reason,
	}
}

// terminalStateRule: nobody approves an expense that is already decided.
// This is a normal boundary condition, not a fault.
type terminalStateRule struct{}

func (terminalStateRule) ID() string { return "terminal-state" }

func (r terminalStateRule) Check(user *identity.User, exp *expense.Expense) error {
	if exp.Status.IsTerminal() {
		return refusal(r.ID(), user, exp, "expense is already "+exp.Status.String())
	}
	return nil
}

// selfApprovalRule: a submitter never approves their own expense, whatever
// their role.
type selfApprovalRule struct{}

func (selfApprovalRule) ID() string { return "no-self-approval" }

func (r selfApprovalRule) Check(user *identity.User, exp *expense.Expense) error {
	if user.ID == exp.SubmitterID {
		return refusal(r.ID(), user, exp, "self-approval is forbidden")
	}
	return nil
}

// approverRoleRule: only approving roles may decide at all.
type approverRoleRule struct{}

func (approverRoleRule) ID() string { return "approver-role" }

func (r approverRoleRule) Check(user *identity.User, exp *expense.Expense) error {
	if !user.Role.IsApprover() {
		return refusal(r.ID(), user, exp, "role '"+user.Role.String()+"' may not approve expenses")
	}
	return nil
}

// departmentRule: managers stay inside their own department; admins cross
// department boundaries freely.
type departmentRule struct{}

func (departmentRule) ID() string { return "department-scope" }

func (r departmentRule) Check(user *identity.User, exp *expense.Expense) error {
	if user.Role == identity.RoleAdmin {
		return nil
	}
	if user.Department != exp.SubmitterDepartment {
		return refusal(r.ID(), user, exp,
			"department '"+user.Department+"' may not approve expenses from '"+exp.SubmitterDepartment+"'")
	}
	return nil
}
