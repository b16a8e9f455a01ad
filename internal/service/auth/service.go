package auth

import (
	"context"
	"fmt"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	"github.com/surveypool/search-api/pkg/auth"
	apperrors "github.com/surveypool/search-api/pkg/errors"
	"github.com/surveypool/search-api/pkg/security"
)

// Service authenticates accounts and issues access tokens. Account
// onboarding and identity verification live elsewhere; this only exists so
// gated handlers have a bearer to check.
type Service struct {
	accounts repository.AccountRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
}

func NewService(accounts repository.AccountRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		accounts: accounts,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
	}
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	Role        model.Role `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	token, err := s.jwtSvc.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		Role:        account.Role,
	}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
