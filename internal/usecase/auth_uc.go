package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
	"promo-business-api/internal/infra/logging"
	"promo-business-api/internal/infra/security"

	"github.com/rs/zerolog"
)

const passwordSpecials = "@$!%*?&"

// SignUpInput is the sign-up request body.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate collects every violated field before returning, so the response
// can enumerate all of them at once.
func (in SignUpInput) Validate() error {
	ve := &domain.ValidationError{}

	if n := utf8.RuneCountInString(in.Name); n < 5 || n > 50 {
		ve.Add("string_length", "name", "name must be 5 to 50 characters", in.Name)
	}
	if n := utf8.RuneCountInString(in.Email); n < 8 || n > 120 {
		ve.Add("string_length", "email", "email must be 8 to 120 characters", in.Email)
	}

	if n := utf8.RuneCountInString(in.Password); n < 8 || n > 60 {
		ve.Add("string_length", "password", "password must be 8 to 60 characters", nil)
	} else {
		var lower, upper, digit, special bool
		for _, r := range in.Password {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			default:
				for _, s := range passwordSpecials {
					if r == s {
						special = true
					}
				}
			}
		}
		if !lower {
			ve.Add("value_error", "password", "password needs a lowercase letter", nil)
		}
		if !upper {
			ve.Add("value_error", "password", "password needs an uppercase letter", nil)
		}
		if !digit {
			ve.Add("value_error", "password", "password needs a digit", nil)
		}
		if !special {
			ve.Add("value_error", "password", fmt.Sprintf("password needs one of %q", passwordSpecials), nil)
		}
	}

	return ve.AsError()
}

// AuthUseCase issues credentials for companies: sign-up, sign-in and the
// bearer-token resolution the access gate runs on every protected request.
type AuthUseCase struct {
	companies repository.CompanyRepository
	hasher    security.PasswordHasher
	tokens    *security.TokenManager
	log       *zerolog.Logger
	dev       bool
}

func NewAuthUseCase(
	companies repository.CompanyRepository,
	hasher security.PasswordHasher,
	tokens *security.TokenManager,
	logger *zerolog.Logger,
	dev bool,
) *AuthUseCase {
	return &AuthUseCase{companies: companies, hasher: hasher, tokens: tokens, log: logger, dev: dev}
}

// SignUp registers a new company. Email uniqueness is enforced by the store,
// so a duplicate surfaces as domain.ErrAlreadyExists even under concurrent
// attempts.
func (uc *AuthUseCase) SignUp(ctx context.Context, in SignUpInput) error {
	l := logging.With(ctx, uc.log)
	l.Info().Str("email", logging.Redact(in.Email, uc.dev)).Msg("sign-up requested")

	if err := in.Validate(); err != nil {
		return err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	company, err := model.NewCompany(in.Name, in.Email, hash)
	if err != nil {
		return err
	}
	if err := uc.companies.Create(ctx, repository.NoTX, company); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			l.Warn().Str("email", logging.Redact(in.Email, uc.dev)).Msg("email already registered")
			return err
		}
		return fmt.Errorf("create company: %w", err)
	}

	l.Info().Str("company_id", company.ID).Msg("company registered")
	return nil
}

// SignIn verifies credentials and returns a fresh bearer token plus the
// company id. Unknown email and wrong password both collapse to
// domain.ErrInvalidCredentials (always a 401, never distinguishable).
func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (string, string, error) {
	company, err := uc.companies.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("find company: %w", err)
	}
	if !uc.hasher.Verify(password, company.Password) {
		return "", "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(company.Email)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	// Advisory bookkeeping: the token column is a cache, not the source of
	// truth for validity, so a write failure must not fail the sign-in.
	if err := uc.companies.RecordLogin(ctx, repository.NoTX, company.ID, time.Now().UTC(), token); err != nil {
		logging.With(ctx, uc.log).Warn().Err(err).Str("company_id", company.ID).Msg("record login failed")
	}

	return token, company.ID, nil
}

// Authenticate resolves a bearer token to the company it was issued for.
// Returns domain.ErrInvalidToken on any signature/expiry problem and
// domain.ErrNotFound when the subject no longer resolves to a company.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*model.Company, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.FindByEmail(ctx, repository.NoTX, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return company, nil
}
