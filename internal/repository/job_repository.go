package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/storage/kv"
)

// JobRepository persists each user's job list as one value under
// jobs/{email}. Callers that read, modify and write the list hold Lock for
// the owner across the cycle.
type JobRepository interface {
	Lock(owner string) (unlock func())
	Load(ctx context.Context, owner string) ([]job.Job, error)
	Save(ctx context.Context, owner string, jobs []job.Job) error
	Clear(ctx context.Context, owner string) error
}

type KVJobRepository struct {
	store  kv.Store
	locks  *keyedMutex
	logger *logging.Logger
}

func NewKVJobRepository(store kv.Store, logger *logging.Logger) *KVJobRepository {
	return &KVJobRepository{store: store, locks: newKeyedMutex(), logger: logger}
}

func ownerKey(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

func (r *KVJobRepository) Lock(owner string) func() {
	return r.locks.Lock(ownerKey(owner))
}

// Load returns the owner's jobs in stored order. Records are normalized on
// the way in; a record that is still invalid afterwards is skipped rather
// than handed to the lifecycle. It stays in storage untouched; see Save.
func (r *KVJobRepository) Load(ctx context.Context, owner string) ([]job.Job, error) {
	key := ownerKey(owner)
	if key == "" {
		return nil, domain.NewValidationError("owner", "owner email is required")
	}

	var raw []job.Job
	if _, err := kv.GetJSON(ctx, r.store, kv.NamespaceJobs, key, &raw); err != nil {
		return nil, &domain.PersistenceError{Op: "load jobs", Cause: err}
	}

	out := make([]job.Job, 0, len(raw))
	for _, j := range raw {
		j.Normalize()
		if j.OwnerEmail == "" {
			j.OwnerEmail = key
		}
		if err := j.Validate(); err != nil {
			r.logger.Warn("skipping malformed job record", "owner", key, "job_id", j.ID, "error", err)
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

// Save validates every job before writing; nothing is written when one is
// invalid. Stored records that Load skipped as malformed are written back
// byte for byte after the valid ones unless a job in jobs reuses their id.
func (r *KVJobRepository) Save(ctx context.Context, owner string, jobs []job.Job) error {
	key := ownerKey(owner)
	if key == "" {
		return domain.NewValidationError("owner", "owner email is required")
	}
	out := make([]json.RawMessage, 0, len(jobs))
	ids := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		j = j.Clone()
		j.Normalize()
		if err := j.Validate(); err != nil {
			return err
		}
		b, err := json.Marshal(j)
		if err != nil {
			return err
		}
		out = append(out, b)
		ids[j.ID.String()] = struct{}{}
	}

	kept, err := r.malformed(ctx, key)
	if err != nil {
		return err
	}
	for _, m := range kept {
		if _, dup := ids[m.id]; dup {
			continue
		}
		out = append(out, m.raw)
	}

	if err := kv.PutJSON(ctx, r.store, kv.NamespaceJobs, key, out); err != nil {
		return &domain.PersistenceError{Op: "save jobs", Cause: err}
	}
	return nil
}

// Clear removes the owner's whole job list, malformed records included.
func (r *KVJobRepository) Clear(ctx context.Context, owner string) error {
	key := ownerKey(owner)
	if key == "" {
		return domain.NewValidationError("owner", "owner email is required")
	}
	if err := r.store.Delete(ctx, kv.NamespaceJobs, key); err != nil {
		return &domain.PersistenceError{Op: "clear jobs", Cause: err}
	}
	return nil
}

type malformedRecord struct {
	id  string
	raw json.RawMessage
}

func (r *KVJobRepository) malformed(ctx context.Context, key string) ([]malformedRecord, error) {
	var raw []json.RawMessage
	if _, err := kv.GetJSON(ctx, r.store, kv.NamespaceJobs, key, &raw); err != nil {
		return nil, &domain.PersistenceError{Op: "load jobs", Cause: err}
	}
	var out []malformedRecord
	for _, b := range raw {
		var j job.Job
		if err := json.Unmarshal(b, &j); err != nil {
			out = append(out, malformedRecord{raw: b})
			continue
		}
		j.Normalize()
		if j.OwnerEmail == "" {
			j.OwnerEmail = key
		}
		if j.Validate() != nil {
			out = append(out, malformedRecord{id: j.ID.String(), raw: b})
		}
	}
	return out, nil
}

// IsPersistence reports whether err came from the storage layer.
func IsPersistence(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}
