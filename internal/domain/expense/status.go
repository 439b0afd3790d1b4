package expense

import (
	"encoding/json"
	"fmt"
)

// Status is the workflow position of an expense. The set is closed: any
// value outside it is a data-integrity error, never a silently-ignored case.
type Status string

const (
	// StatusPending is the initial state, assigned at submission.
	StatusPending Status = "pending"
	// StatusApproved is terminal; the expense was accepted.
	StatusApproved Status = "approved"
	// StatusRejected is terminal; the expense was declined.
	StatusRejected Status = "rejected"
)

// AllStatuses returns all valid expense statuses.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

// IsValid returns true if the status is a member of the closed status set.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsPending returns true if the expense is still awaiting a decision.
func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsApproved returns true if the status is approved.
func (s Status) IsApproved() bool {
	return s == StatusApproved
}

// IsRejected returns true if the status is rejected.
func (s Status) IsRejected() bool {
	return s == StatusRejected
}

// IsTerminal returns true if no further transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo returns true if a transition to the target status is legal.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

// ValidTransitions returns all statuses reachable from this status.
func (s Status) ValidTransitions() []Status {
	if s != StatusPending {
		return nil
	}
	return []Status{StatusApproved, StatusRejected}
}

// DisplayName returns a human-readable display name for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(str string) (Status, error) {
	status := Status(str)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid expense status: %q", str)
	}
	return status, nil
}

// MustParseStatus parses a string into a Status, panicking on error.
func MustParseStatus(str string) Status {
	status, err := ParseStatus(str)
	if err != nil {
		panic(err)
	}
	return status
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler. Unknown values, including the
// empty string, are rejected.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := Status(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid expense status: %q", str)
	}

	*s = status
	return nil
}
