package job

import (
	"errors"
	"strings"
	"time"

	"job-tracker/internal/domain"
)

var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// TransitionPolicy decides whether a job may move from one status to another.
type TransitionPolicy interface {
	Allowed(from, to Status) bool
}

// Permissive allows any status to follow any other, including itself.
type Permissive struct{}

func (Permissive) Allowed(from, to Status) bool { return to.Valid() }

// AllowedPairs is an explicit transition table. Re-selecting the current
// status is always allowed so a note can be attached without moving.
type AllowedPairs map[Status][]Status

func (p AllowedPairs) Allowed(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range p[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StrictPipeline is the table used when STATUS_POLICY=strict.
var StrictPipeline = AllowedPairs{
	StatusListed:                    {StatusApplied, StatusCanceled},
	StatusApplied:                   {StatusInterviewScheduled, StatusJobTaskAssigned, StatusOfferReceived, StatusRejected, StatusCanceled},
	StatusInterviewScheduled:        {StatusInitialInterviewCompleted, StatusInterviewCompleted, StatusRejected, StatusCanceled},
	StatusInitialInterviewCompleted: {StatusInterviewScheduled, StatusInterviewCompleted, StatusJobTaskAssigned, StatusOfferReceived, StatusRejected, StatusCanceled},
	StatusInterviewCompleted:        {StatusInterviewScheduled, StatusJobTaskAssigned, StatusOfferReceived, StatusRejected, StatusCanceled},
	StatusJobTaskAssigned:           {StatusInterviewScheduled, StatusInterviewCompleted, StatusOfferReceived, StatusRejected, StatusCanceled},
	StatusOfferReceived:             {StatusRejected, StatusCanceled},
	StatusCanceled:                  {StatusListed},
}

// PolicyByName maps a config value to a policy. Unknown names fall back to
// Permissive.
func PolicyByName(name string) TransitionPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return StrictPipeline
	default:
		return Permissive{}
	}
}

// Rollback restores a job to the state it had before a status update.
type Rollback func()

type Lifecycle struct {
	policy TransitionPolicy
	now    func() time.Time
}

func NewLifecycle(policy TransitionPolicy, now func() time.Time) *Lifecycle {
	if policy == nil {
		policy = Permissive{}
	}
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{policy: policy, now: now}
}

// Start sets the initial status of a freshly created job and seeds its
// history with one entry.
func (l *Lifecycle) Start(j *Job, status Status, note string) error {
	if j == nil {
		return domain.NewValidationError("job", "job is required")
	}
	if status == "" {
		status = StatusListed
	}
	if !status.Valid() {
		return domain.NewValidationError("status", "unknown status "+string(status))
	}
	ts := l.now().UTC()
	j.Status = status
	j.StatusHistory = []StatusEntry{{Status: status, Timestamp: ts, Note: strings.TrimSpace(note)}}
	j.UpdatedAt = ts
	return nil
}

// UpdateStatus moves j to status and appends one history entry in the same
// step. The returned Rollback undoes both.
func (l *Lifecycle) UpdateStatus(j *Job, status Status, note string) (Rollback, error) {
	if j == nil {
		return nil, domain.NewValidationError("job", "job is required")
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status "+string(status))
	}
	if !l.policy.Allowed(j.Status, status) {
		return nil, ErrTransitionNotAllowed
	}

	prevStatus := j.Status
	prevLen := len(j.StatusHistory)
	prevUpdated := j.UpdatedAt

	ts := l.now().UTC()
	if last, ok := j.LastEntry(); ok && ts.Before(last.Timestamp) {
		ts = last.Timestamp
	}

	j.StatusHistory = append(j.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: ts,
		Note:      strings.TrimSpace(note),
	})
	j.Status = status
	j.UpdatedAt = ts

	return func() {
		j.Status = prevStatus
		j.StatusHistory = j.StatusHistory[:prevLen]
		j.UpdatedAt = prevUpdated
	}, nil
}
