package seeder

import (
	"context"
	"errors"
	"fmt"

	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"
	ucjob "job-tracker/internal/usecase/job"
	ucprofile "job-tracker/internal/usecase/profile"
)

// Target is the set of usecases seeders write through.
type Target struct {
	Auth    ucauth.AuthUsecase
	Jobs    ucjob.Usecase
	Profile ucprofile.Usecase
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, t Target, id usecase.Identity) error
}

// Runner ensures the demo account exists and runs each seeder as that user.
type Runner struct {
	Name     string
	Email    string
	Password string
	Seeders  []Seeder
}

func (r Runner) Run(ctx context.Context, t Target) (usecase.Identity, error) {
	if t.Auth == nil || t.Jobs == nil || t.Profile == nil {
		return usecase.Identity{}, fmt.Errorf("incomplete seed target")
	}

	id, err := r.account(ctx, t.Auth)
	if err != nil {
		return usecase.Identity{}, fmt.Errorf("seed account: %w", err)
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, t, id); err != nil {
			return id, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return id, nil
}

func (r Runner) account(ctx context.Context, auth ucauth.AuthUsecase) (usecase.Identity, error) {
	u, _, err := auth.Register(ctx, ucauth.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password})
	if errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
		u, _, err = auth.Login(ctx, ucauth.LoginInput{Email: r.Email, Password: r.Password})
	}
	if err != nil {
		return usecase.Identity{}, err
	}
	return usecase.Identity{UserID: u.ID, Email: u.Email}, nil
}
