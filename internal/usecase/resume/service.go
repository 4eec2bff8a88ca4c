package resume

import (
	"context"
	"fmt"
	"time"

	"job-tracker/internal/analysis"
	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/resume"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Submitter queues a background analysis.
type Submitter interface {
	Submit(owner string, jobID uuid.UUID) (analysis.Request, error)
}

type UploadResult struct {
	Resume  profile.JobSpecificResume `json:"resume"`
	Request *analysis.Request         `json:"analysisRequest,omitempty"`
}

type Usecase interface {
	Upload(ctx context.Context, id usecase.Identity, jobID uuid.UUID, fileName string, content []byte) (UploadResult, error)
	Get(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (profile.JobSpecificResume, error)
	Remove(ctx context.Context, id usecase.Identity, jobID uuid.UUID) error
}

type Service struct {
	jobs       repository.JobRepository
	resumes    repository.ResumeRepository
	extractor  resume.Extractor
	maxBytes   int64
	invalidate *usecase.Invalidator
	submitter  Submitter
	logger     *logging.Logger
	now        func() time.Time
}

type Deps struct {
	Jobs           repository.JobRepository
	Resumes        repository.ResumeRepository
	Extractor      resume.Extractor
	MaxUploadBytes int64
	Invalidator    *usecase.Invalidator
	Submitter      Submitter
	Logger         *logging.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		jobs:       d.Jobs,
		resumes:    d.Resumes,
		extractor:  d.Extractor,
		maxBytes:   d.MaxUploadBytes,
		invalidate: d.Invalidator,
		submitter:  d.Submitter,
		logger:     d.Logger,
		now:        time.Now,
	}
}

func (s *Service) ownedJob(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (string, error) {
	owner := id.Owner()
	if owner == "" {
		return "", domain.NewValidationError("email", "session email is required")
	}
	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return "", err
	}
	if !lo.ContainsBy(jobs, func(it job.Job) bool { return it.ID == jobID }) {
		return "", fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	return owner, nil
}

// Upload stores a resume that overrides the profile for this job only and
// queues a fresh analysis. A failed queue submission does not fail the
// upload; the next synchronous analysis picks the resume up.
func (s *Service) Upload(ctx context.Context, id usecase.Identity, jobID uuid.UUID, fileName string, content []byte) (UploadResult, error) {
	if err := usecase.CheckUpload(content, s.maxBytes); err != nil {
		return UploadResult{}, err
	}
	owner, err := s.ownedJob(ctx, id, jobID)
	if err != nil {
		return UploadResult{}, err
	}

	ex, err := s.extractor.Extract(ctx, fileName, content)
	if err != nil {
		return UploadResult{}, usecase.MapExtractError(err)
	}

	r := profile.JobSpecificResume{
		OwnerEmail: owner,
		JobID:      jobID,
		FileName:   fileName,
		Text:       ex.Text,
		Skills:     ex.Skills,
		UploadedAt: s.now().UTC(),
	}
	r.Normalize()
	if err := s.resumes.Save(ctx, r); err != nil {
		return UploadResult{}, err
	}
	s.invalidate.Job(ctx, owner, jobID)

	out := UploadResult{Resume: r}
	if s.submitter != nil {
		req, err := s.submitter.Submit(owner, jobID)
		if err != nil {
			s.logger.Warn("analysis not queued after resume upload", "owner", owner, "job_id", jobID, "error", err)
		} else {
			out.Request = &req
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (profile.JobSpecificResume, error) {
	owner := id.Owner()
	if owner == "" {
		return profile.JobSpecificResume{}, domain.NewValidationError("email", "session email is required")
	}
	r, found, err := s.resumes.Get(ctx, owner, jobID)
	if err != nil {
		return profile.JobSpecificResume{}, err
	}
	if !found {
		return profile.JobSpecificResume{}, fmt.Errorf("resume for job %s: %w", jobID, domain.ErrNotFound)
	}
	return r, nil
}

// Remove drops the override; the job falls back to the profile.
func (s *Service) Remove(ctx context.Context, id usecase.Identity, jobID uuid.UUID) error {
	if _, err := s.Get(ctx, id, jobID); err != nil {
		return err
	}
	owner := id.Owner()
	if err := s.resumes.Delete(ctx, owner, jobID); err != nil {
		return err
	}
	s.invalidate.Job(ctx, owner, jobID)
	return nil
}
