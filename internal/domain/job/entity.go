package job

import (
	"strings"
	"time"

	"job-tracker/internal/domain"

	"github.com/google/uuid"
)

type Status string

const (
	StatusListed                    Status = "listed"
	StatusApplied                   Status = "applied"
	StatusInterviewScheduled        Status = "interviewScheduled"
	StatusInitialInterviewCompleted Status = "initialInterviewCompleted"
	StatusInterviewCompleted        Status = "interviewCompleted"
	StatusJobTaskAssigned           Status = "jobTaskAssigned"
	StatusOfferReceived             Status = "offerReceived"
	StatusRejected                  Status = "rejected"
	StatusCanceled                  Status = "canceled"
)

// Statuses lists every status in canonical pipeline order.
var Statuses = []Status{
	StatusListed,
	StatusApplied,
	StatusInterviewScheduled,
	StatusInitialInterviewCompleted,
	StatusInterviewCompleted,
	StatusJobTaskAssigned,
	StatusOfferReceived,
	StatusRejected,
	StatusCanceled,
}

func (s Status) Valid() bool {
	for _, it := range Statuses {
		if it == s {
			return true
		}
	}
	return false
}

type EmploymentType string

const (
	TypeFullTime    EmploymentType = "fullTime"
	TypePartTime    EmploymentType = "partTime"
	TypeContractual EmploymentType = "contractual"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContractual:
		return true
	default:
		return false
	}
}

type LocationMode string

const (
	LocationOnsite LocationMode = "onsite"
	LocationHybrid LocationMode = "hybrid"
	LocationRemote LocationMode = "remote"
)

func (l LocationMode) Valid() bool {
	switch l {
	case LocationOnsite, LocationHybrid, LocationRemote:
		return true
	default:
		return false
	}
}

type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timeStamp"`
	Note      string    `json:"note"`
}

type Job struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"jobTitle"`
	CompanyName    string         `json:"companyName"`
	CompanyWebsite string         `json:"companyWebsite"`
	PostURL        string         `json:"jobPostUrl"`
	Salary         string         `json:"salary"`
	ExpectedSalary string         `json:"expectedSalary"`
	Deadline       *time.Time     `json:"deadline,omitempty"`
	Type           EmploymentType `json:"type"`
	Location       LocationMode   `json:"location"`
	Skills         []string       `json:"skills"`
	Experience     string         `json:"experience"`
	Details        string         `json:"details"`
	Status         Status         `json:"status"`
	StatusHistory  []StatusEntry  `json:"statusHistory"`
	OwnerID        uuid.UUID      `json:"userId"`
	OwnerEmail     string         `json:"userEmail"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// LastEntry returns the newest history entry, if any.
func (j *Job) LastEntry() (StatusEntry, bool) {
	if j == nil || len(j.StatusHistory) == 0 {
		return StatusEntry{}, false
	}
	return j.StatusHistory[len(j.StatusHistory)-1], true
}

// Clone returns a deep copy so callers can mutate without aliasing the
// stored slices.
func (j Job) Clone() Job {
	out := j
	if j.Skills != nil {
		out.Skills = append([]string(nil), j.Skills...)
	}
	if j.StatusHistory != nil {
		out.StatusHistory = append([]StatusEntry(nil), j.StatusHistory...)
	}
	if j.Deadline != nil {
		d := *j.Deadline
		out.Deadline = &d
	}
	return out
}

// Validate checks required fields and enum values. It does not mutate.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return domain.NewValidationError("jobTitle", "job title is required")
	}
	if strings.TrimSpace(j.CompanyName) == "" {
		return domain.NewValidationError("companyName", "company name is required")
	}
	if j.Type != "" && !j.Type.Valid() {
		return domain.NewValidationError("type", "type must be one of fullTime, partTime, contractual")
	}
	if j.Location != "" && !j.Location.Valid() {
		return domain.NewValidationError("location", "location must be one of onsite, hybrid, remote")
	}
	if !j.Status.Valid() {
		return domain.NewValidationError("status", "unknown status "+string(j.Status))
	}
	if len(j.StatusHistory) == 0 {
		return domain.NewValidationError("statusHistory", "status history must not be empty")
	}
	last := j.StatusHistory[len(j.StatusHistory)-1]
	if last.Status != j.Status {
		return domain.NewValidationError("statusHistory", "last history entry does not match current status")
	}
	for i := 1; i < len(j.StatusHistory); i++ {
		if j.StatusHistory[i].Timestamp.Before(j.StatusHistory[i-1].Timestamp) {
			return domain.NewValidationError("statusHistory", "status history is out of order")
		}
	}
	return nil
}

// NormalizeSkills trims, drops empties and removes case-insensitive
// duplicates while keeping first-seen order.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Normalize trims scalar fields, normalizes skills and repairs a missing
// history by seeding it from the current status. It is applied at the
// persistence edge.
func (j *Job) Normalize() {
	j.NormalizeAt(time.Now().UTC())
}

// NormalizeAt is Normalize with an explicit clock. A repaired history entry
// is stamped with createdAt, then updatedAt, then now.
func (j *Job) NormalizeAt(now time.Time) {
	j.Title = strings.TrimSpace(j.Title)
	j.CompanyName = strings.TrimSpace(j.CompanyName)
	j.CompanyWebsite = strings.TrimSpace(j.CompanyWebsite)
	j.PostURL = strings.TrimSpace(j.PostURL)
	j.Salary = strings.TrimSpace(j.Salary)
	j.ExpectedSalary = strings.TrimSpace(j.ExpectedSalary)
	j.Experience = strings.TrimSpace(j.Experience)
	j.OwnerEmail = strings.ToLower(strings.TrimSpace(j.OwnerEmail))
	j.Skills = NormalizeSkills(j.Skills)

	if j.Status == "" {
		j.Status = StatusListed
	}
	if j.StatusHistory == nil {
		j.StatusHistory = []StatusEntry{}
	}
	if len(j.StatusHistory) == 0 && j.Status.Valid() {
		ts := j.CreatedAt
		if ts.IsZero() {
			ts = j.UpdatedAt
		}
		if ts.IsZero() {
			ts = now
		}
		j.StatusHistory = append(j.StatusHistory, StatusEntry{Status: j.Status, Timestamp: ts})
	}
}
