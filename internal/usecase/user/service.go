package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/usecase"

	"golang.org/x/crypto/bcrypt"
)

var ErrInternal = errors.New("internal error")

// UpdateMeInput changes the display name and/or password. The email is the
// owner key of every stored record, so it is not editable.
type UpdateMeInput struct {
	Name     *string
	Password *string
}

type Usecase interface {
	GetMe(ctx context.Context, id usecase.Identity) (user.User, error)
	UpdateMe(ctx context.Context, id usecase.Identity, in UpdateMeInput) (user.User, error)
}

type Service struct {
	users user.Repository
	now   func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

func (s *Service) GetMe(ctx context.Context, id usecase.Identity) (user.User, error) {
	usr, err := s.load(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, id usecase.Identity, in UpdateMeInput) (user.User, error) {
	usr, err := s.load(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.User{}, domain.NewValidationError("name", "name must not be blank")
		}
		usr.Name = name
	}

	if in.Password != nil {
		pw := strings.TrimSpace(*in.Password)
		if !isValidPassword(pw) {
			return user.User{}, domain.NewValidationError("password", "password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return user.User{}, ErrInternal
		}
		usr.PasswordHash = string(hash)
	}

	usr.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, usr); err != nil {
		return user.User{}, err
	}
	return sanitizeUser(usr), nil
}

func (s *Service) load(ctx context.Context, id usecase.Identity) (user.User, error) {
	owner := id.Owner()
	if owner == "" {
		return user.User{}, domain.NewValidationError("email", "session email is required")
	}
	usr, err := s.users.GetByEmail(ctx, owner)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, domain.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func isValidPassword(pw string) bool {
	return len(pw) >= 8
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
