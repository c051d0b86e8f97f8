package auth

import (
	"context"

	"github.com/frahmantamala/finance-ops/internal/access"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims carries everything needed to build the caller record, so a
// verified token never costs a database round trip.
type Claims struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"is_admin"`
	Grade      int       `json:"grade,omitempty"`
	Department string    `json:"department,omitempty"`
	TokenType  TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Caller() access.Caller {
	return access.Caller{
		ID:         c.UserID,
		IsAdmin:    c.IsAdmin,
		Grade:      access.Grade(c.Grade),
		Department: c.Department,
	}
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	Register(ctx context.Context, dto RegisterDTO) (*RegisteredUser, error)
}

type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(u *userDatamodel.User) (string, error)
	GenerateRefreshToken(u *userDatamodel.User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTLSeconds() int64
}
