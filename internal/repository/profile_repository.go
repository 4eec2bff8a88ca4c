package repository

import (
	"context"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/storage/kv"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Get(ctx context.Context, owner string) (profile.CandidateProfile, bool, error)
	Save(ctx context.Context, owner string, p profile.CandidateProfile) error
}

type KVProfileRepository struct {
	store kv.Store
}

func NewKVProfileRepository(store kv.Store) *KVProfileRepository {
	return &KVProfileRepository{store: store}
}

func (r *KVProfileRepository) Get(ctx context.Context, owner string) (profile.CandidateProfile, bool, error) {
	key := ownerKey(owner)
	if key == "" {
		return profile.CandidateProfile{}, false, domain.NewValidationError("owner", "owner email is required")
	}
	var p profile.CandidateProfile
	found, err := kv.GetJSON(ctx, r.store, kv.NamespaceProfile, key, &p)
	if err != nil {
		return profile.CandidateProfile{}, false, &domain.PersistenceError{Op: "load profile", Cause: err}
	}
	if !found {
		return profile.CandidateProfile{}, false, nil
	}
	p.Normalize()
	return p, true, nil
}

func (r *KVProfileRepository) Save(ctx context.Context, owner string, p profile.CandidateProfile) error {
	key := ownerKey(owner)
	if key == "" {
		return domain.NewValidationError("owner", "owner email is required")
	}
	p.Normalize()
	if p.Email == "" {
		p.Email = key
	}
	if err := kv.PutJSON(ctx, r.store, kv.NamespaceProfile, key, p); err != nil {
		return &domain.PersistenceError{Op: "save profile", Cause: err}
	}
	return nil
}

// ResumeRepository stores job-specific resume overrides under
// job_resume/{email}_{jobId}. Keys for different jobs never overlap.
type ResumeRepository interface {
	Get(ctx context.Context, owner string, jobID uuid.UUID) (profile.JobSpecificResume, bool, error)
	Save(ctx context.Context, r profile.JobSpecificResume) error
	Delete(ctx context.Context, owner string, jobID uuid.UUID) error
}

type KVResumeRepository struct {
	store kv.Store
}

func NewKVResumeRepository(store kv.Store) *KVResumeRepository {
	return &KVResumeRepository{store: store}
}

func resumeKey(owner string, jobID uuid.UUID) string {
	return kv.CompositeKey(ownerKey(owner), jobID.String())
}

func (r *KVResumeRepository) Get(ctx context.Context, owner string, jobID uuid.UUID) (profile.JobSpecificResume, bool, error) {
	if ownerKey(owner) == "" {
		return profile.JobSpecificResume{}, false, domain.NewValidationError("owner", "owner email is required")
	}
	var res profile.JobSpecificResume
	found, err := kv.GetJSON(ctx, r.store, kv.NamespaceJobResume, resumeKey(owner, jobID), &res)
	if err != nil {
		return profile.JobSpecificResume{}, false, &domain.PersistenceError{Op: "load resume", Cause: err}
	}
	if !found {
		return profile.JobSpecificResume{}, false, nil
	}
	res.Normalize()
	return res, true, nil
}

func (r *KVResumeRepository) Save(ctx context.Context, res profile.JobSpecificResume) error {
	res.Normalize()
	if res.OwnerEmail == "" {
		return domain.NewValidationError("owner", "owner email is required")
	}
	if res.JobID == uuid.Nil {
		return domain.NewValidationError("jobId", "job id is required")
	}
	if err := kv.PutJSON(ctx, r.store, kv.NamespaceJobResume, resumeKey(res.OwnerEmail, res.JobID), res); err != nil {
		return &domain.PersistenceError{Op: "save resume", Cause: err}
	}
	return nil
}

func (r *KVResumeRepository) Delete(ctx context.Context, owner string, jobID uuid.UUID) error {
	if ownerKey(owner) == "" {
		return domain.NewValidationError("owner", "owner email is required")
	}
	if err := r.store.Delete(ctx, kv.NamespaceJobResume, resumeKey(owner, jobID)); err != nil {
		return &domain.PersistenceError{Op: "delete resume", Cause: err}
	}
	return nil
}
