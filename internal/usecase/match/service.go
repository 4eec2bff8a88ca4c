package match

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-tracker/internal/analysis"
	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/matching"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// AsyncRunner is the background side of the match service.
type AsyncRunner interface {
	Submit(owner string, jobID uuid.UUID) (analysis.Request, error)
	Get(owner string, id string) (analysis.Request, error)
}

type Usecase interface {
	Analyze(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (matching.Analysis, error)
	SubmitAsync(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (analysis.Request, error)
	GetRequest(ctx context.Context, id usecase.Identity, jobID uuid.UUID, requestID string) (analysis.Request, error)
}

type Service struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	resumes  repository.ResumeRepository
	engine   *matching.Engine
	cache    usecase.AnalysisCache
	ttl      time.Duration
	runner   AsyncRunner
	logger   *logging.Logger
}

type Deps struct {
	Jobs     repository.JobRepository
	Profiles repository.ProfileRepository
	Resumes  repository.ResumeRepository
	Engine   *matching.Engine
	Cache    usecase.AnalysisCache
	CacheTTL time.Duration
	Logger   *logging.Logger
}

func NewService(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = matching.NewEngine(matching.Vocabulary{}, nil)
	}
	return &Service{
		jobs:     d.Jobs,
		profiles: d.Profiles,
		resumes:  d.Resumes,
		engine:   d.Engine,
		cache:    d.Cache,
		ttl:      d.CacheTTL,
		logger:   d.Logger,
	}
}

// SetRunner attaches the background runner. The runner itself calls back
// into Compute, so it is wired after construction.
func (s *Service) SetRunner(r AsyncRunner) {
	s.runner = r
}

// Analyze returns the match analysis for one of the caller's jobs, served
// from cache when the cached entry was computed from the current job,
// resume and profile. It returns matching.ErrAnalysisUnavailable when the
// caller has neither a resume for the job nor a non-empty profile.
func (s *Service) Analyze(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (matching.Analysis, error) {
	owner := id.Owner()
	if owner == "" {
		return matching.Analysis{}, domain.NewValidationError("email", "session email is required")
	}

	in, err := s.load(ctx, owner, jobID)
	if err != nil {
		return matching.Analysis{}, err
	}

	key := cache.AnalysisKey(owner, jobID)
	if s.cache != nil {
		var cached cachedAnalysis
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Debug("analysis cache read failed", "key", key, "error", err)
		}
		if hit && err == nil && cached.Fingerprint == in.fingerprint() {
			return cached.Analysis, nil
		}
	}

	return s.compute(ctx, owner, jobID, in)
}

// cachedAnalysis is the cache entry: the result plus a digest of the inputs
// it was computed from. An entry whose digest no longer matches the stored
// inputs is ignored and overwritten.
type cachedAnalysis struct {
	Fingerprint string            `json:"fingerprint"`
	Analysis    matching.Analysis `json:"analysis"`
}

type inputs struct {
	job        job.Job
	resume     profile.JobSpecificResume
	haveResume bool
	profile    profile.CandidateProfile
	haveProf   bool
}

func (in inputs) fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(in.job)
	if in.haveResume {
		_ = enc.Encode(in.resume)
	} else {
		_, _ = h.Write([]byte("-\n"))
	}
	if in.haveProf {
		_ = enc.Encode(in.profile)
	} else {
		_, _ = h.Write([]byte("-\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) load(ctx context.Context, owner string, jobID uuid.UUID) (inputs, error) {
	var in inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := s.jobs.Load(gctx, owner)
		if err != nil {
			return err
		}
		j, ok := lo.Find(jobs, func(it job.Job) bool { return it.ID == jobID })
		if !ok {
			return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
		}
		in.job = j
		return nil
	})
	g.Go(func() error {
		r, found, err := s.resumes.Get(gctx, owner, jobID)
		in.resume, in.haveResume = r, found
		return err
	})
	g.Go(func() error {
		p, found, err := s.profiles.Get(gctx, owner)
		in.profile, in.haveProf = p, found
		return err
	})

	if err := g.Wait(); err != nil {
		return inputs{}, err
	}
	return in, nil
}

// Compute scores the job without consulting the cache and stores the
// result. It is the function the background runner executes.
func (s *Service) Compute(ctx context.Context, owner string, jobID uuid.UUID) (matching.Analysis, error) {
	in, err := s.load(ctx, owner, jobID)
	if err != nil {
		return matching.Analysis{}, err
	}
	return s.compute(ctx, owner, jobID, in)
}

func (s *Service) compute(ctx context.Context, owner string, jobID uuid.UUID, in inputs) (matching.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return matching.Analysis{}, err
	}

	candidate, source := SelectCandidate(in.resume, in.haveResume, in.profile, in.haveProf)
	res, err := s.engine.Analyze(in.job, candidate, source)
	if err != nil {
		return matching.Analysis{}, err
	}

	if s.cache != nil {
		entry := cachedAnalysis{Fingerprint: in.fingerprint(), Analysis: res}
		if err := s.cache.SetJSON(ctx, cache.AnalysisKey(owner, jobID), entry, s.ttl); err != nil {
			s.logger.Debug("analysis cache write failed", "owner", owner, "job_id", jobID, "error", err)
		}
	}
	return res, nil
}

// SelectCandidate picks the data a job is scored against: the job-specific
// resume when present, else a non-empty profile, else nothing.
func SelectCandidate(r profile.JobSpecificResume, haveResume bool, p profile.CandidateProfile, haveProfile bool) (*matching.CandidateData, matching.DataSource) {
	if haveResume {
		return &matching.CandidateData{Skills: r.Skills, ExperienceText: r.Text}, matching.SourceUploadedResume
	}
	if haveProfile && !p.IsEmpty() {
		return &matching.CandidateData{
			Skills:         p.Skills,
			ExperienceText: p.ExperienceText(),
			HasEducation:   len(p.Education) > 0,
		}, matching.SourceProfile
	}
	return nil, matching.SourceProfile
}

func (s *Service) SubmitAsync(ctx context.Context, id usecase.Identity, jobID uuid.UUID) (analysis.Request, error) {
	if s.runner == nil {
		return analysis.Request{}, errors.New("analysis runner not configured")
	}
	owner := id.Owner()
	if owner == "" {
		return analysis.Request{}, domain.NewValidationError("email", "session email is required")
	}
	jobs, err := s.jobs.Load(ctx, owner)
	if err != nil {
		return analysis.Request{}, err
	}
	if !lo.ContainsBy(jobs, func(it job.Job) bool { return it.ID == jobID }) {
		return analysis.Request{}, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	return s.runner.Submit(owner, jobID)
}

func (s *Service) GetRequest(_ context.Context, id usecase.Identity, jobID uuid.UUID, requestID string) (analysis.Request, error) {
	if s.runner == nil {
		return analysis.Request{}, analysis.ErrRequestNotFound
	}
	req, err := s.runner.Get(id.Owner(), requestID)
	if err != nil {
		return analysis.Request{}, err
	}
	if req.JobID != jobID {
		return analysis.Request{}, analysis.ErrRequestNotFound
	}
	return req, nil
}
