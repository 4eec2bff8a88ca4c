package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/matching"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/scraper"
	"job-tracker/internal/usecase"
	"job-tracker/internal/ws"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// PostingImporter turns a posting URL into prefilled job fields.
type PostingImporter interface {
	Import(ctx context.Context, url string) (scraper.Posting, error)
}

type CreateInput struct {
	Title          string
	CompanyName    string
	CompanyWebsite string
	PostURL        string
	Salary         string
	ExpectedSalary string
	Deadline       *time.Time
	Type           job.EmploymentType
	Location       job.LocationMode
	Skills         []string
	Experience     string
	Details        string
	Status         job.Status
	Note           string
}

// UpdateInput carries a partial update; nil fields are left untouched.
// Status is changed only through UpdateStatus.
type UpdateInput struct {
	Title          *string
	CompanyName    *string
	CompanyWebsite *string
	PostURL        *string
	Salary         *string
	ExpectedSalary *string
	Deadline       *time.Time
	ClearDeadline  bool
	Type           *job.EmploymentType
	Location       *job.LocationMode
	Skills         *[]string
	Experience     *string
	Details        *string
}

type Usecase interface {
	Create(ctx context.Context, id usecase.Identity, in CreateInput) (job.Job, error)
	ListMine(ctx context.Context, id usecase.Identity) ([]job.Job, error)
	Get(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (job.Job, error)
	Update(ctx context.Context, id usecase.Identity, jobID uuid.UUID, in UpdateInput) (job.Job, error)
	UpdateStatus(ctx context.Context, id usecase.Identity, jobID uuid.UUID, status job.Status, note string) (job.Job, error)
	Delete(ctx context.Context, id usecase.Identity, jobID uuid.UUID) error
	Import(ctx context.Context, id usecase.Identity, url string) (job.Job, error)
}

type Service struct {
	jobs       repository.JobRepository
	resumes    repository.ResumeRepository
	lifecycle  *job.Lifecycle
	vocab      matching.Vocabulary
	importer   PostingImporter
	invalidate *usecase.Invalidator
	events     usecase.EventPublisher
	logger     *logging.Logger
	now        func() time.Time
}

type Deps struct {
	Jobs        repository.JobRepository
	Resumes     repository.ResumeRepository
	Lifecycle   *job.Lifecycle
	Vocabulary  matching.Vocabulary
	Importer    PostingImporter
	Invalidator *usecase.Invalidator
	Events      usecase.EventPublisher
	Logger      *logging.Logger
}

func NewService(d Deps) *Service {
	if d.Lifecycle == nil {
		d.Lifecycle = job.NewLifecycle(nil, nil)
	}
	if d.Vocabulary.Len() == 0 {
		d.Vocabulary = matching.NewVocabulary(matching.DefaultVocabulary)
	}
	return &Service{
		jobs:       d.Jobs,
		resumes:    d.Resumes,
		lifecycle:  d.Lifecycle,
		vocab:      d.Vocabulary,
		importer:   d.Importer,
		invalidate: d.Invalidator,
		events:     d.Events,
		logger:     d.Logger,
		now:        time.Now,
	}
}

func notFound(jobID uuid.UUID) error {
	return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
}

func requireOwner(id usecase.Identity) (string, error) {
	owner := id.Owner()
	if owner == "" {
		return "", domain.NewValidationError("email", "session email is required")
	}
	return owner, nil
}

func (s *Service) publish(owner string, evt ws.Event) {
	if s.events != nil {
		s.events.Publish(owner, evt)
	}
}

func (s *Service) Create(ctx context.Context, id usecase.Identity, in CreateInput) (job.Job, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return job.Job{}, err
	}

	now := s.now().UTC()
	j := job.Job{
		ID:             uuid.New(),
		Title:          in.Title,
		CompanyName:    in.CompanyName,
		CompanyWebsite: in.CompanyWebsite,
		PostURL:        in.PostURL,
		Salary:         in.Salary,
		ExpectedSalary: in.ExpectedSalary,
		Deadline:       in.Deadline,
		Type:           in.Type,
		Location:       in.Location,
		Skills:         in.Skills,
		Experience:     in.Experience,
		Details:        in.Details,
		OwnerID:        id.UserID,
		OwnerEmail:     owner,
		CreatedAt:      now,
	}
	if err := s.lifecycle.Start(&j, in.Status, in.Note); err != nil {
		return job.Job{}, err
	}
	j.Normalize()
	if err := j.Validate(); err != nil {
		return job.Job{}, err
	}

	unlock := s.jobs.Lock(owner)
	defer unlock()

	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return job.Job{}, err
	}
	if err := s.jobs.Save(ctx, owner, append(jobs, j)); err != nil {
		return job.Job{}, err
	}

	s.publish(owner, ws.Event{Type: ws.EventJobCreated, JobID: j.ID, Status: string(j.Status)})
	return j, nil
}

func (s *Service) ListMine(ctx context.Context, id usecase.Identity) ([]job.Job, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return nil, err
	}
	return s.jobs.Load(ctx, owner)
}

func (s *Service) Get(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (job.Job, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return job.Job{}, err
	}
	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return job.Job{}, err
	}
	j, ok := lo.Find(jobs, func(it job.Job) bool { return it.ID == jobID })
	if !ok {
		return job.Job{}, notFound(jobID)
	}
	return j, nil
}

// mutate runs fn on the stored copy of jobID under the owner lock and saves
// the list. fn may return a rollback that is applied when the save fails.
func (s *Service) mutate(ctx context.Context, owner string, jobID uuid.UUID, fn func(j *job.Job) (job.Rollback, error)) (job.Job, error) {
	unlock := s.jobs.Lock(owner)
	defer unlock()

	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return job.Job{}, err
	}
	_, idx, ok := lo.FindIndexOf(jobs, func(it job.Job) bool { return it.ID == jobID })
	if !ok {
		return job.Job{}, notFound(jobID)
	}

	rollback, err := fn(&jobs[idx])
	if err != nil {
		return job.Job{}, err
	}
	if err := s.jobs.Save(ctx, owner, jobs); err != nil {
		if rollback != nil {
			rollback()
		}
		return job.Job{}, err
	}
	return jobs[idx], nil
}

func (s *Service) Update(ctx context.Context, id usecase.Identity, jobID uuid.UUID, in UpdateInput) (job.Job, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return job.Job{}, err
	}

	updated, err := s.mutate(ctx, owner, jobID, func(j *job.Job) (job.Rollback, error) {
		before := j.Clone()
		applyUpdate(j, in)
		j.Normalize()
		j.UpdatedAt = s.now().UTC()
		if err := j.Validate(); err != nil {
			*j = before
			return nil, err
		}
		return func() { *j = before }, nil
	})
	if err != nil {
		return job.Job{}, err
	}

	s.invalidate.Job(ctx, owner, jobID)
	s.publish(owner, ws.Event{Type: ws.EventJobUpdated, JobID: jobID, Status: string(updated.Status)})
	return updated, nil
}

func applyUpdate(j *job.Job, in UpdateInput) {
	setString(&j.Title, in.Title)
	setString(&j.CompanyName, in.CompanyName)
	setString(&j.CompanyWebsite, in.CompanyWebsite)
	setString(&j.PostURL, in.PostURL)
	setString(&j.Salary, in.Salary)
	setString(&j.ExpectedSalary, in.ExpectedSalary)
	setString(&j.Experience, in.Experience)
	setString(&j.Details, in.Details)
	if in.ClearDeadline {
		j.Deadline = nil
	} else if in.Deadline != nil {
		d := *in.Deadline
		j.Deadline = &d
	}
	if in.Type != nil {
		j.Type = *in.Type
	}
	if in.Location != nil {
		j.Location = *in.Location
	}
	if in.Skills != nil {
		j.Skills = append([]string(nil), (*in.Skills)...)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// UpdateStatus applies one status change through the lifecycle. If the
// save fails the in-memory change is rolled back and the persistence error
// is returned so the caller can retry.
func (s *Service) UpdateStatus(ctx context.Context, id usecase.Identity, jobID uuid.UUID, status job.Status, note string) (job.Job, error) {
	owner, err := requireOwner(id)
	if err != nil {
		return job.Job{}, err
	}
	status = job.Status(strings.TrimSpace(string(status)))

	updated, err := s.mutate(ctx, owner, jobID, func(j *job.Job) (job.Rollback, error) {
		return s.lifecycle.UpdateStatus(j, status, note)
	})
	if err != nil {
		if repository.IsPersistence(err) {
			s.logger.Warn("status update not persisted, rolled back", "owner", owner, "job_id", jobID, "status", status, "error", err)
		}
		return job.Job{}, err
	}

	s.invalidate.Job(ctx, owner, jobID)
	s.publish(owner, ws.Event{Type: ws.EventJobStatusChanged, JobID: jobID, Status: string(updated.Status)})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id usecase.Identity, jobID uuid.UUID) error {
	owner, err := requireOwner(id)
	if err != nil {
		return err
	}

	unlock := s.jobs.Lock(owner)
	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		unlock()
		return err
	}
	kept := lo.Reject(jobs, func(it job.Job, _ int) bool { return it.ID == jobID })
	if len(kept) == len(jobs) {
		unlock()
		return notFound(jobID)
	}
	err = s.jobs.Save(ctx, owner, kept)
	unlock()
	if err != nil {
		return err
	}

	if s.resumes != nil {
		if err := s.resumes.Delete(ctx, owner, jobID); err != nil {
			s.logger.Warn("orphaned job resume not removed", "owner", owner, "job_id", jobID, "error", err)
		}
	}
	s.invalidate.Job(ctx, owner, jobID)
	s.publish(owner, ws.Event{Type: ws.EventJobDeleted, JobID: jobID})
	return nil
}

// Import fetches a posting page and creates a listed job from it. Skills
// are prefilled from the vocabulary terms the posting mentions.
func (s *Service) Import(ctx context.Context, id usecase.Identity, url string) (job.Job, error) {
	if s.importer == nil {
		return job.Job{}, domain.NewValidationError("url", "posting import is disabled")
	}
	if _, err := requireOwner(id); err != nil {
		return job.Job{}, err
	}
	p, err := s.importer.Import(ctx, url)
	if err != nil {
		return job.Job{}, err
	}
	return s.Create(ctx, id, CreateInput{
		Title:          p.Title,
		CompanyName:    p.CompanyName,
		CompanyWebsite: p.CompanyWebsite,
		PostURL:        p.PostURL,
		Details:        p.Details,
		Skills:         s.vocab.Extract(p.Title + " " + p.Details),
		Status:         job.StatusListed,
		Note:           "imported from " + p.PostURL,
	})
}
