//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/infra/security"
	"promo-business-api/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

func newAuthUC(repo *memCompanyRepo, ttl time.Duration) (*usecase.AuthUseCase, *security.TokenManager) {
	tokens := security.NewTokenManager("test-secret", ttl)
	return usecase.NewAuthUseCase(repo, security.NewBcryptHasher(4), tokens, newTestLogger(), true), tokens
}

func validSignUp() usecase.SignUpInput {
	return usecase.SignUpInput{
		Name:     "Acme Corp",
		Email:    "acme@example.com",
		Password: "Str0ng@pass",
	}
}

func TestAuthUseCase_SignUpAndSignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemCompanyRepo()
	uc, tokens := newAuthUC(repo, 30*time.Minute)

	if err := uc.SignUp(ctx, validSignUp()); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	// The stored password must be a hash, never the plaintext.
	stored, err := repo.FindByEmail(ctx, nil, "acme@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.Password == "Str0ng@pass" || stored.Password == "" {
		t.Fatalf("password stored in plaintext or empty")
	}

	token, companyID, err := uc.SignIn(ctx, "acme@example.com", "Str0ng@pass")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if companyID != stored.ID {
		t.Fatalf("expected company id %q, got %q", stored.ID, companyID)
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.Subject != "acme@example.com" {
		t.Fatalf("expected subject %q, got %q", "acme@example.com", claims.Subject)
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 30*time.Minute {
		t.Fatalf("expected exp-iat of 1800s, got %s", lifetime)
	}

	// Advisory login bookkeeping landed.
	stored, _ = repo.FindByEmail(ctx, nil, "acme@example.com")
	if stored.LastLogin == nil || stored.Token == nil || *stored.Token != token {
		t.Fatalf("expected last_login and token recorded on sign-in")
	}
}

func TestAuthUseCase_SignUpDuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemCompanyRepo()
	uc, _ := newAuthUC(repo, 30*time.Minute)

	if err := uc.SignUp(ctx, validSignUp()); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	in := validSignUp()
	in.Name = "Other Name"
	err := uc.SignUp(ctx, in)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCase_SignUpValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemCompanyRepo()
	uc, _ := newAuthUC(repo, 30*time.Minute)

	// Every violated field must be reported, not just the first.
	err := uc.SignUp(ctx, usecase.SignUpInput{
		Name:     "abc",        // too short
		Email:    "a@b",        // too short
		Password: "alllower1@", // missing uppercase
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, v := range ve.Violations {
		fields[v.Loc[len(v.Loc)-1]] = true
	}
	for _, f := range []string{"name", "email", "password"} {
		if !fields[f] {
			t.Fatalf("expected violation for %q, got %+v", f, ve.Violations)
		}
	}
}

func TestAuthUseCase_SignUpPasswordPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"ok", "Str0ng@pass", true},
		{"no lowercase", "STR0NG@PASS", false},
		{"no uppercase", "str0ng@pass", false},
		{"no digit", "Strong@pass", false},
		{"no special", "Str0ngpass1", false},
		{"too short", "S0@a", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSignUp()
			in.Password = tc.password
			err := in.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.wantOK && err == nil {
				t.Fatalf("expected validation error for %q", tc.password)
			}
		})
	}
}

func TestAuthUseCase_SignInRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemCompanyRepo()
	uc, _ := newAuthUC(repo, 30*time.Minute)
	if err := uc.SignUp(ctx, validSignUp()); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	// Wrong password and unknown email collapse to the same error.
	if _, _, err := uc.SignIn(ctx, "acme@example.com", "Wr0ng@pass!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := uc.SignIn(ctx, "nobody@example.com", "Str0ng@pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemCompanyRepo()
	uc, tokens := newAuthUC(repo, 30*time.Minute)
	if err := uc.SignUp(ctx, validSignUp()); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	token, _, err := uc.SignIn(ctx, "acme@example.com", "Str0ng@pass")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	company, err := uc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if company.Email != "acme@example.com" {
		t.Fatalf("expected resolved company email, got %q", company.Email)
	}

	if _, err := uc.Authenticate(ctx, token+"tampered"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("tampered token: expected ErrInvalidToken, got %v", err)
	}

	// A token whose subject no longer resolves is rejected distinctly.
	orphan, err := tokens.Issue("ghost@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := uc.Authenticate(ctx, orphan); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown subject: expected ErrNotFound, got %v", err)
	}
}
