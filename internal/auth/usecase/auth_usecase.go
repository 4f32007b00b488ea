package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	authdomain "leafscan-backend/internal/auth/domain"
	authdto "leafscan-backend/internal/auth/dto"
	"leafscan-backend/internal/auth/repository"
	"leafscan-backend/pkg/apperr"
)

const (
	minPasswordLength = 6
	bearerPrefix      = "Bearer "
)

// AuthUsecase registers and authenticates users and verifies bearer tokens.
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.SignupRequest) (*authdto.AuthResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error)

	// ValidateToken accepts a raw token or an Authorization header value and
	// returns the user id embedded in it. The user store is not consulted.
	ValidateToken(tokenString string) (string, error)

	CurrentUser(ctx context.Context, userID string) (*authdomain.User, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	tokens   *TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokens *TokenIssuer) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.SignupRequest) (*authdto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, apperr.Validation("Password must be at least 6 characters")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &authdomain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, authdomain.ErrEmailTaken) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal(err)
	}

	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if user == nil {
		// Spend the same bcrypt time as a real comparison.
		repository.CheckPasswordHash(req.Password, u.dummy())
		return nil, apperr.Auth("Invalid email or password")
	}
	if !repository.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperr.Auth("Invalid email or password")
	}

	return u.issue(user)
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, bearerPrefix))
	if tokenString == "" {
		return "", apperr.New(apperr.KindMissingToken, "Token is missing")
	}
	return u.tokens.Parse(tokenString)
}

func (u *authUsecase) CurrentUser(ctx context.Context, userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (u *authUsecase) issue(user *authdomain.User) (*authdto.AuthResponse, error) {
	token, _, err := u.tokens.Mint(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &authdto.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (u *authUsecase) dummy() string {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = repository.HashPassword("timing-equalizer")
	})
	return u.dummyHash
}
