package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrRefreshTokenExpired    = errors.New("refresh token expired")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, jwt.Pair, error)
	Login(ctx context.Context, in LoginInput) (user.User, jwt.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (jwt.Pair, error)
}

type Service struct {
	users user.Repository
	jwt   jwt.Service
	now   func() time.Time
}

func NewService(users user.Repository, jwtSvc jwt.Service) *Service {
	return &Service{users: users, jwt: jwtSvc, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, jwt.Pair, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, jwt.Pair{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, jwt.Pair{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, jwt.Pair{}, ErrInternal
	}
	if exists {
		return user.User{}, jwt.Pair{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, jwt.Pair{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return user.User{}, jwt.Pair{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, jwt.Pair{}, ErrInternal
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return user.User{}, jwt.Pair{}, ErrInternal
	}
	return sanitizeUser(u), pair, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, jwt.Pair, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, jwt.Pair{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return user.User{}, jwt.Pair{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, jwt.Pair{}, ErrInvalidCredentials
		}
		return user.User{}, jwt.Pair{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, jwt.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return user.User{}, jwt.Pair{}, ErrInternal
	}
	return sanitizeUser(u), pair, nil
}

// Refresh trades a valid refresh token for a new pair. The account must
// still exist.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (jwt.Pair, error) {
	claims, err := s.jwt.ValidateRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.Pair{}, ErrRefreshTokenExpired
		}
		return jwt.Pair{}, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return jwt.Pair{}, ErrInvalidRefreshToken
		}
		return jwt.Pair{}, ErrInternal
	}
	if u.ID != claims.UserID {
		return jwt.Pair{}, ErrInvalidRefreshToken
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return jwt.Pair{}, ErrInternal
	}
	return pair, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	if len(pw) < 8 {
		return false
	}
	return true
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
