package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account that submits expenses, decides on them, or both,
// depending on its role. Role and department together drive approval
// eligibility; both change only through administrative action.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser creates a validated user with a fresh identifier.
func NewUser(name, email string, role Role, department string, now time.Time) (*User, error) {
	u := &User{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		Role:       role,
		Department: strings.TrimSpace(department),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the structural invariants of the user.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if u.Name == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if u.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("invalid role: %q", u.Role)
	}
	if u.Department == "" {
		return fmt.Errorf("user department cannot be empty")
	}
	return nil
}
