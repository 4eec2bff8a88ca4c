package dto

import (
	"time"

	"job-tracker/internal/domain/job"
	ucjob "job-tracker/internal/usecase/job"
)

type CreateJobRequest struct {
	Title          string     `json:"jobTitle" validate:"required"`
	CompanyName    string     `json:"companyName" validate:"required"`
	CompanyWebsite string     `json:"companyWebsite" validate:"omitempty,url"`
	PostURL        string     `json:"jobPostUrl" validate:"omitempty,url"`
	Salary         string     `json:"salary"`
	ExpectedSalary string     `json:"expectedSalary"`
	Deadline       *time.Time `json:"deadline"`
	Type           string     `json:"type" validate:"omitempty,oneof=fullTime partTime contractual"`
	Location       string     `json:"location" validate:"omitempty,oneof=onsite hybrid remote"`
	Skills         []string   `json:"skills"`
	Experience     string     `json:"experience"`
	Details        string     `json:"details"`
	Status         string     `json:"status"`
	Note           string     `json:"note"`
}

func (r CreateJobRequest) Input() ucjob.CreateInput {
	return ucjob.CreateInput{
		Title:          r.Title,
		CompanyName:    r.CompanyName,
		CompanyWebsite: r.CompanyWebsite,
		PostURL:        r.PostURL,
		Salary:         r.Salary,
		ExpectedSalary: r.ExpectedSalary,
		Deadline:       r.Deadline,
		Type:           job.EmploymentType(r.Type),
		Location:       job.LocationMode(r.Location),
		Skills:         r.Skills,
		Experience:     r.Experience,
		Details:        r.Details,
		Status:         job.Status(r.Status),
		Note:           r.Note,
	}
}

// UpdateJobRequest is a partial update. Absent fields are left as they are.
// Set clearDeadline to drop the deadline.
type UpdateJobRequest struct {
	Title          *string    `json:"jobTitle"`
	CompanyName    *string    `json:"companyName"`
	CompanyWebsite *string    `json:"companyWebsite"`
	PostURL        *string    `json:"jobPostUrl"`
	Salary         *string    `json:"salary"`
	ExpectedSalary *string    `json:"expectedSalary"`
	Deadline       *time.Time `json:"deadline"`
	ClearDeadline  bool       `json:"clearDeadline"`
	Type           *string    `json:"type" validate:"omitempty,oneof=fullTime partTime contractual"`
	Location       *string    `json:"location" validate:"omitempty,oneof=onsite hybrid remote"`
	Skills         *[]string  `json:"skills"`
	Experience     *string    `json:"experience"`
	Details        *string    `json:"details"`
}

func (r UpdateJobRequest) Input() ucjob.UpdateInput {
	in := ucjob.UpdateInput{
		Title:          r.Title,
		CompanyName:    r.CompanyName,
		CompanyWebsite: r.CompanyWebsite,
		PostURL:        r.PostURL,
		Salary:         r.Salary,
		ExpectedSalary: r.ExpectedSalary,
		Deadline:       r.Deadline,
		ClearDeadline:  r.ClearDeadline,
		Skills:         r.Skills,
		Experience:     r.Experience,
		Details:        r.Details,
	}
	if r.Type != nil {
		t := job.EmploymentType(*r.Type)
		in.Type = &t
	}
	if r.Location != nil {
		l := job.LocationMode(*r.Location)
		in.Location = &l
	}
	return in
}

func (r UpdateJobRequest) Empty() bool {
	return r.Title == nil && r.CompanyName == nil && r.CompanyWebsite == nil &&
		r.PostURL == nil && r.Salary == nil && r.ExpectedSalary == nil &&
		r.Deadline == nil && !r.ClearDeadline && r.Type == nil && r.Location == nil &&
		r.Skills == nil && r.Experience == nil && r.Details == nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}
