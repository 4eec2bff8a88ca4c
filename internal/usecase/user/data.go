package user

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/usecase"
)

// DataExport is everything stored for one account. Profile is an empty
// object when the user never saved one.
type DataExport struct {
	Jobs       []job.Job `json:"jobs"`
	Profile    any       `json:"profile"`
	ExportDate time.Time `json:"exportDate"`
}

type DataUsecase interface {
	ExportData(ctx context.Context, id usecase.Identity) (DataExport, error)
	ClearData(ctx context.Context, id usecase.Identity) error
}

type DataService struct {
	jobs       repository.JobRepository
	profiles   repository.ProfileRepository
	resumes    repository.ResumeRepository
	users      user.Repository
	invalidate *usecase.Invalidator
	logger     *logging.Logger
	now        func() time.Time
}

type DataDeps struct {
	Jobs        repository.JobRepository
	Profiles    repository.ProfileRepository
	Resumes     repository.ResumeRepository
	Users       user.Repository
	Invalidator *usecase.Invalidator
	Logger      *logging.Logger
}

func NewDataService(d DataDeps) *DataService {
	return &DataService{
		jobs:       d.Jobs,
		profiles:   d.Profiles,
		resumes:    d.Resumes,
		users:      d.Users,
		invalidate: d.Invalidator,
		logger:     d.Logger,
		now:        time.Now,
	}
}

func (s *DataService) ExportData(ctx context.Context, id usecase.Identity) (DataExport, error) {
	owner := id.Owner()
	if owner == "" {
		return DataExport{}, domain.NewValidationError("email", "session email is required")
	}
	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return DataExport{}, err
	}
	p, found, err := s.profiles.Get(ctx, owner)
	if err != nil {
		return DataExport{}, err
	}

	out := DataExport{Jobs: jobs, Profile: map[string]any{}, ExportDate: s.now().UTC()}
	if out.Jobs == nil {
		out.Jobs = []job.Job{}
	}
	if found {
		out.Profile = p
	}
	return out, nil
}

// ClearData deletes the job list and every job's resume, and resets the
// profile to the empty profile seeded from the account name.
func (s *DataService) ClearData(ctx context.Context, id usecase.Identity) error {
	owner := id.Owner()
	if owner == "" {
		return domain.NewValidationError("email", "session email is required")
	}

	unlock := s.jobs.Lock(owner)
	defer unlock()

	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := s.resumes.Delete(ctx, owner, j.ID); err != nil {
			return err
		}
	}
	if err := s.jobs.Clear(ctx, owner); err != nil {
		return err
	}

	name := ""
	if s.users != nil {
		u, err := s.users.GetByEmail(ctx, owner)
		switch {
		case err == nil:
			name = u.Name
		case !errors.Is(err, user.ErrNotFound):
			s.logger.Warn("clear data: user lookup failed", "owner", owner, "error", err)
		}
	}
	p := profile.Empty(name, owner)
	now := s.now().UTC()
	p.LastUpdated = &now
	if err := s.profiles.Save(ctx, owner, p); err != nil {
		return err
	}

	s.invalidate.Owner(ctx, owner)
	s.logger.Info("account data cleared", "owner", owner, "jobs", len(jobs))
	return nil
}
