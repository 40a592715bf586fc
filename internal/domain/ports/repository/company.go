package repository

import (
	"context"
	"time"

	"promo-business-api/internal/domain/model"
)

// -----------------------------
// Companies
// -----------------------------

// CompanyRepository persists company accounts. Create must enforce email
// uniqueness at the storage layer: two concurrent sign-ups with the same email
// result in exactly one success and one domain.ErrAlreadyExists.
type CompanyRepository interface {
	Create(ctx context.Context, tx Tx, c *model.Company) error
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Company, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Company, error)
	// RecordLogin updates last_login and the advisory token column. It is not
	// security-critical and must not block readers.
	RecordLogin(ctx context.Context, tx Tx, id string, at time.Time, token string) error
}
