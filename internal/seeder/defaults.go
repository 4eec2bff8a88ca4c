package seeder

import (
	"context"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/profile"
	"job-tracker/internal/usecase"
	ucjob "job-tracker/internal/usecase/job"
)

func Defaults() []Seeder {
	return []Seeder{
		ProfileSeeder{},
		JobsSeeder{},
	}
}

type ProfileSeeder struct{}

func (ProfileSeeder) Name() string { return "profile" }

// Run fills the profile only while it is still empty.
func (ProfileSeeder) Run(ctx context.Context, t Target, id usecase.Identity) error {
	cur, err := t.Profile.Get(ctx, id)
	if err != nil {
		return err
	}
	if !cur.IsEmpty() {
		return nil
	}

	p := cur
	p.ProfessionalSummary = "Full-stack engineer focused on web platforms and cloud delivery."
	p.Skills = []string{"React", "TypeScript", "Node.js", "PostgreSQL", "Docker"}
	p.WorkExperience = []profile.WorkExperience{{
		JobTitle:    "Software Engineer",
		Company:     "Initech",
		StartDate:   "2021-03",
		Current:     true,
		Description: "Built React dashboards backed by Node.js services and PostgreSQL.",
	}}
	p.Education = []profile.Education{{
		Degree:         "B.Sc. Computer Science",
		Institution:    "State University",
		GraduationDate: "2020-06",
	}}
	p.Languages = []string{"English"}
	_, err = t.Profile.Update(ctx, id, p)
	return err
}

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

type seedJob struct {
	in      ucjob.CreateInput
	history []job.Status
}

var demoJobs = []seedJob{
	{
		in: ucjob.CreateInput{
			Title:       "Senior React Developer",
			CompanyName: "Acme",
			PostURL:     "https://acme.example/careers/react",
			Type:        job.TypeFullTime,
			Location:    job.LocationRemote,
			Details:     "<p>React, TypeScript and AWS. Experience with GraphQL is a plus.</p>",
		},
		history: []job.Status{job.StatusApplied, job.StatusInterviewScheduled},
	},
	{
		in: ucjob.CreateInput{
			Title:       "Backend Engineer",
			CompanyName: "Globex",
			Type:        job.TypeFullTime,
			Location:    job.LocationHybrid,
			Details:     "<p>Node.js microservices on Kubernetes with PostgreSQL and Docker.</p>",
		},
		history: []job.Status{job.StatusApplied},
	},
	{
		in: ucjob.CreateInput{
			Title:       "Data Engineer",
			CompanyName: "Umbrella",
			Type:        job.TypeContractual,
			Location:    job.LocationOnsite,
			Details:     "<p>Python, Pandas and Machine Learning pipelines.</p>",
		},
	},
}

// Run creates the demo jobs unless the account already has any.
func (JobsSeeder) Run(ctx context.Context, t Target, id usecase.Identity) error {
	existing, err := t.Jobs.ListMine(ctx, id)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, sj := range demoJobs {
		in := sj.in
		in.Note = "seeded"
		j, err := t.Jobs.Create(ctx, id, in)
		if err != nil {
			return err
		}
		for _, st := range sj.history {
			if _, err := t.Jobs.UpdateStatus(ctx, id, j.ID, st, ""); err != nil {
				return err
			}
		}
	}
	return nil
}
