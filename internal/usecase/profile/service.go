package profile

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/resume"
	"job-tracker/internal/usecase"
)

type Usecase interface {
	Get(ctx context.Context, id usecase.Identity) (profile.CandidateProfile, error)
	Update(ctx context.Context, id usecase.Identity, p profile.CandidateProfile) (profile.CandidateProfile, error)
	Clear(ctx context.Context, id usecase.Identity) (profile.CandidateProfile, error)
	ImportResume(ctx context.Context, id usecase.Identity, fileName string, content []byte) (profile.CandidateProfile, error)
	Export(ctx context.Context, id usecase.Identity) (string, error)
}

type Service struct {
	profiles   repository.ProfileRepository
	users      user.Repository
	extractor  resume.Extractor
	maxBytes   int64
	invalidate *usecase.Invalidator
	logger     *logging.Logger
	now        func() time.Time
}

type Deps struct {
	Profiles       repository.ProfileRepository
	Users          user.Repository
	Extractor      resume.Extractor
	MaxUploadBytes int64
	Invalidator    *usecase.Invalidator
	Logger         *logging.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		profiles:   d.Profiles,
		users:      d.Users,
		extractor:  d.Extractor,
		maxBytes:   d.MaxUploadBytes,
		invalidate: d.Invalidator,
		logger:     d.Logger,
		now:        time.Now,
	}
}

func requireOwner(id usecase.Identity) (string, error) {
	owner := id.Owner()
	if owner == "" {
		return "", domain.NewValidationError("email", "session email is required")
	}
	return owner, nil
}

// Get returns the caller's profile, creating and storing an empty one
// seeded with the session identity on first access.
func (s *Service) Get(ctx context.Context, id usecase.Identity) (profile.CandidateProfile, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	p, found, err := s.profiles.Get(ctx, owner)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	if found {
		return p, nil
	}

	p = s.blank(ctx, owner)
	if err := s.profiles.Save(ctx, owner, p); err != nil {
		return profile.CandidateProfile{}, err
	}
	return p, nil
}

func (s *Service) blank(ctx context.Context, owner string) profile.CandidateProfile {
	name := ""
	if s.users != nil {
		u, err := s.users.GetByEmail(ctx, owner)
		switch {
		case err == nil:
			name = u.Name
		case !errors.Is(err, user.ErrNotFound):
			s.logger.Warn("profile seed: user lookup failed", "owner", owner, "error", err)
		}
	}
	return profile.Empty(name, owner)
}

// Update replaces the whole profile. An empty contact email falls back to
// the session email.
func (s *Service) Update(ctx context.Context, id usecase.Identity, p profile.CandidateProfile) (profile.CandidateProfile, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	p.Normalize()
	if p.Email == "" {
		p.Email = owner
	}
	now := s.now().UTC()
	p.LastUpdated = &now

	if err := s.profiles.Save(ctx, owner, p); err != nil {
		return profile.CandidateProfile{}, err
	}
	s.invalidate.Owner(ctx, owner)
	return p, nil
}

// Clear resets the profile to the empty one. The record is kept.
func (s *Service) Clear(ctx context.Context, id usecase.Identity) (profile.CandidateProfile, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	p := s.blank(ctx, owner)
	now := s.now().UTC()
	p.LastUpdated = &now

	if err := s.profiles.Save(ctx, owner, p); err != nil {
		return profile.CandidateProfile{}, err
	}
	s.invalidate.Owner(ctx, owner)
	return p, nil
}

// ImportResume runs the extractor over an uploaded resume, merges the
// skills it finds into the profile and stores the resume text. Fields the
// extractor recovered fill only blanks in the stored profile.
func (s *Service) ImportResume(ctx context.Context, id usecase.Identity, fileName string, content []byte) (profile.CandidateProfile, error) {
	if err := usecase.CheckUpload(content, s.maxBytes); err != nil {
		return profile.CandidateProfile{}, err
	}
	if s.extractor == nil {
		return profile.CandidateProfile{}, domain.NewValidationError("file", "resume import is disabled")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return profile.CandidateProfile{}, err
	}

	ex, err := s.extractor.Extract(ctx, fileName, content)
	if err != nil {
		return profile.CandidateProfile{}, usecase.MapExtractError(err)
	}

	if ex.Profile != nil {
		fillBlanks(&current, *ex.Profile)
	}
	current.MergeSkills(ex.Skills)
	current.ResumeText = ex.Text
	return s.Update(ctx, id, current)
}

func fillBlanks(dst *profile.CandidateProfile, src profile.CandidateProfile) {
	fill := func(d *string, v string) {
		if *d == "" {
			*d = v
		}
	}
	fill(&dst.FullName, src.FullName)
	fill(&dst.Phone, src.Phone)
	fill(&dst.Location, src.Location)
	fill(&dst.LinkedInURL, src.LinkedInURL)
	fill(&dst.GitHubURL, src.GitHubURL)
	fill(&dst.PortfolioURL, src.PortfolioURL)
	fill(&dst.ProfessionalSummary, src.ProfessionalSummary)
	if len(dst.WorkExperience) == 0 {
		dst.WorkExperience = src.WorkExperience
	}
	if len(dst.Education) == 0 {
		dst.Education = src.Education
	}
	if len(dst.Projects) == 0 {
		dst.Projects = src.Projects
	}
	if len(dst.Certifications) == 0 {
		dst.Certifications = src.Certifications
	}
	if len(dst.Languages) == 0 {
		dst.Languages = src.Languages
	}
}

func (s *Service) Export(ctx context.Context, id usecase.Identity) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderText(p), nil
}
