package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/repository"
	"github.com/retailcore/pos-api/pkg/jwt"
)

// UseCase authenticates operators and issues JWTs.
type UseCase struct {
	users      repository.UserRepository
	secret     string
	issuer     string
	expMinutes int
}

// NewUseCase builds the use case.
func NewUseCase(users repository.UserRepository, secret, issuer string, expMinutes int) *UseCase {
	return &UseCase{users: users, secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Login verifies the credentials and returns a signed token. Wrong email and
// wrong password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	u, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if u.Status != "active" {
		return nil, domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.secret, u.ID, u.Role, uc.issuer, uc.expMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   u.Role,
			Status: u.Status,
		},
	}, nil
}
