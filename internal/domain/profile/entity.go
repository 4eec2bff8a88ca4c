package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WorkExperience struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	ID             string `json:"id"`
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa,omitempty"`
	Description    string `json:"description"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

type CandidateProfile struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	LinkedInURL  string `json:"linkedinUrl"`
	GitHubURL    string `json:"githubUrl"`
	PortfolioURL string `json:"portfolioUrl"`

	ProfessionalSummary string `json:"professionalSummary"`

	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
	Languages      []string         `json:"languages"`

	ResumeText  string     `json:"resumeText,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Empty returns a blank profile seeded with the session identity.
func Empty(fullName, email string) CandidateProfile {
	p := CandidateProfile{FullName: fullName, Email: email}
	p.Normalize()
	return p
}

// Normalize makes every collection non-nil, trims scalar fields, dedupes
// skills and languages, and assigns ids to entries that lack one. It is
// applied once at the persistence edge.
func (p *CandidateProfile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.LinkedInURL = strings.TrimSpace(p.LinkedInURL)
	p.GitHubURL = strings.TrimSpace(p.GitHubURL)
	p.PortfolioURL = strings.TrimSpace(p.PortfolioURL)
	p.ProfessionalSummary = strings.TrimSpace(p.ProfessionalSummary)

	p.Skills = dedupe(p.Skills)
	p.Languages = dedupe(p.Languages)

	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].ID == "" {
			p.WorkExperience[i].ID = uuid.NewString()
		}
		if p.WorkExperience[i].Current {
			p.WorkExperience[i].EndDate = ""
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	for i := range p.Education {
		if p.Education[i].ID == "" {
			p.Education[i].ID = uuid.NewString()
		}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].ID == "" {
			p.Projects[i].ID = uuid.NewString()
		}
		p.Projects[i].Technologies = dedupe(p.Projects[i].Technologies)
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	for i := range p.Certifications {
		if p.Certifications[i].ID == "" {
			p.Certifications[i].ID = uuid.NewString()
		}
	}
}

// IsEmpty reports whether the profile carries nothing a match could use.
func (p CandidateProfile) IsEmpty() bool {
	return len(p.Skills) == 0 &&
		len(p.WorkExperience) == 0 &&
		len(p.Education) == 0 &&
		len(p.Projects) == 0 &&
		p.ProfessionalSummary == ""
}

// ExperienceText joins work experience descriptions; the summary stands in
// when no entry has a description.
func (p CandidateProfile) ExperienceText() string {
	parts := make([]string, 0, len(p.WorkExperience))
	for _, w := range p.WorkExperience {
		d := strings.TrimSpace(w.Description)
		if d != "" {
			parts = append(parts, d)
		}
	}
	if len(parts) == 0 {
		return p.ProfessionalSummary
	}
	return strings.Join(parts, "\n")
}

// MergeSkills adds skills not already present (case-insensitive).
func (p *CandidateProfile) MergeSkills(skills []string) {
	p.Skills = dedupe(append(p.Skills, skills...))
}

func dedupe(in []string) []string {
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

// JobSpecificResume overrides the profile for exactly one (user, job) pair.
type JobSpecificResume struct {
	OwnerEmail string    `json:"ownerEmail"`
	JobID      uuid.UUID `json:"jobId"`
	FileName   string    `json:"fileName"`
	Text       string    `json:"text"`
	Skills     []string  `json:"skills"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (r *JobSpecificResume) Normalize() {
	r.OwnerEmail = strings.ToLower(strings.TrimSpace(r.OwnerEmail))
	r.FileName = strings.TrimSpace(r.FileName)
	r.Skills = dedupe(r.Skills)
}
