package approval

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/expenseflow/internal/domain/expense"
)

// Verdict is one reviewer's decision on an expense. It deliberately excludes
// the pending value: an approval record structurally cannot hold "waiting".
type Verdict string

const (
	// VerdictApproved accepts the expense.
	VerdictApproved Verdict = "approved"
	// VerdictRejected declines the expense.
	VerdictRejected Verdict = "rejected"
)

// AllVerdicts returns all valid verdicts.
func AllVerdicts() []Verdict {
	return []Verdict{VerdictApproved, VerdictRejected}
}

// IsValid returns true if the verdict is a member of the closed verdict set.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictApproved, VerdictRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	return string(v)
}

// Status maps the verdict onto the expense status it produces.
func (v Verdict) Status() expense.Status {
	switch v {
	case VerdictApproved:
		return expense.StatusApproved
	case VerdictRejected:
		return expense.StatusRejected
	default:
		return ""
	}
}

// DisplayName returns a human-readable display name for the verdict.
func (v Verdict) DisplayName() string {
	switch v {
	case VerdictApproved:
		return "Approved"
	case VerdictRejected:
		return "Rejected"
	default:
		return string(v)
	}
}

// ParseVerdict parses a string into a Verdict. "pending" is not a verdict
// and is rejected along with everything else outside the closed set.
func ParseVerdict(str string) (Verdict, error) {
	verdict := Verdict(str)
	if !verdict.IsValid() {
		return "", fmt.Errorf("invalid verdict: %q (must be approved or rejected)", str)
	}
	return verdict, nil
}

// MustParseVerdict parses a string into a Verdict, panicking on error.
func MustParseVerdict(str string) Verdict {
	verdict, err := ParseVerdict(str)
	if err != nil {
		panic(err)
	}
	return verdict
}

// MarshalJSON implements json.Marshaler.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	verdict := Verdict(str)
	if !verdict.IsValid() {
		return fmt.Errorf("invalid verdict: %q (must be approved or rejected)", str)
	}

	*v = verdict
	return nil
}
