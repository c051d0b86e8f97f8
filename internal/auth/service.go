package auth

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps login timing the same whether or not the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("finance-ops-timing-guard"), bcrypt.DefaultCost)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		if stdErrors.Is(err, errors.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(dto.Password))
			return AuthTokens{}, errors.ErrInvalidCredentials
		}
		return AuthTokens{}, errors.NewDependencyError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.WarnContext(ctx, "login rejected", "user_id", u.ID)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	return s.issue(u)
}

// RefreshTokens reloads the user so grade, department and admin changes
// made since the last login reach the new access token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, errors.ErrUserNotFound) {
			return AuthTokens{}, errors.ErrInvalidToken
		}
		return AuthTokens{}, errors.NewDependencyError("failed to load user", err)
	}

	return s.issue(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisteredUser, error) {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewDependencyError("failed to hash password", err)
	}

	u := &userDatamodel.User{
		Email:        dto.Email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Grade:        int(access.GradeEmployee),
		Department:   dto.Department,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, errors.NewDependencyError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "department", u.Department)
	return &RegisteredUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Grade:      u.Grade,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issue(u *userDatamodel.User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return AuthTokens{}, errors.NewDependencyError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u)
	if err != nil {
		return AuthTokens{}, errors.NewDependencyError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenGenerator.AccessTTLSeconds(),
	}, nil
}
