package model

import (
	"time"

	"promo-business-api/internal/domain"

	"github.com/google/uuid"
)

// Company is a business account that owns promo codes. Password always holds
// the bcrypt hash, never the plaintext. LastLogin and Token are advisory
// bookkeeping written on sign-in; token validity is re-derived from the token
// itself, not from this record.
type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Token     *string    `json:"-"`
}

func NewCompany(name, email, passwordHash string) (*Company, error) {
	if name == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Company{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: passwordHash,
	}, nil
}

func (c *Company) IsZero() bool { return c == nil || c.ID == "" }
