package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/surveypool/search-api/internal/model"
	pkgauth "github.com/surveypool/search-api/pkg/auth"
	apperrors "github.com/surveypool/search-api/pkg/errors"
	"github.com/surveypool/search-api/pkg/security"
)

type stubAccountStore struct {
	account *model.Account
}

func (s *stubAccountStore) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if s.account != nil && s.account.ID == id {
		return s.account, nil
	}
	return nil, apperrors.NotFound("account", nil)
}

func (s *stubAccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if s.account != nil && s.account.Email == email {
		return s.account, nil
	}
	return nil, apperrors.NotFound("account", nil)
}

func (s *stubAccountStore) Credit(context.Context, uuid.UUID, int64) error { return nil }
func (s *stubAccountStore) Debit(context.Context, uuid.UUID, int64) error  { return nil }

func newLoginFixture(t *testing.T, password string) (*Service, *model.Account) {
	t.Helper()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	account := &model.Account{
		ID:           uuid.New(),
		Email:        "lab@example.com",
		PasswordHash: hash,
		Role:         model.RoleInstitution,
		IsActive:     true,
	}
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(&stubAccountStore{account: account}, jwtSvc, hasher), account
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, account := newLoginFixture(t, "correct-horse")

	resp, err := svc.Login(context.Background(), "lab@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstitution, resp.Role)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newLoginFixture(t, "correct-horse")

	_, err := svc.Login(context.Background(), "lab@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newLoginFixture(t, "correct-horse")

	_, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err),
		"unknown accounts and bad passwords are indistinguishable to the caller")
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newLoginFixture(t, "correct-horse")

	_, err := svc.ValidateToken(context.Background(), "tampered.token.value")
	assert.Error(t, err)
}
