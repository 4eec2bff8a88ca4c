package profile

import (
	"fmt"
	"strings"

	"job-tracker/internal/domain/profile"
)

// RenderText lays a profile out as a plain-text resume. Empty sections are
// left out.
func RenderText(p profile.CandidateProfile) string {
	var b strings.Builder

	name := p.FullName
	if name == "" {
		name = "Resume"
	}
	b.WriteString(strings.ToUpper(name))
	b.WriteString("\n")
	contact := nonBlank(p.Email, p.Phone, p.Location)
	if len(contact) > 0 {
		b.WriteString(strings.Join(contact, " | "))
		b.WriteString("\n")
	}
	if links := nonBlank(p.LinkedInURL, p.GitHubURL, p.PortfolioURL); len(links) > 0 {
		b.WriteString(strings.Join(links, " | "))
		b.WriteString("\n")
	}

	if p.ProfessionalSummary != "" {
		section(&b, "PROFESSIONAL SUMMARY")
		b.WriteString(p.ProfessionalSummary)
		b.WriteString("\n")
	}

	if len(p.Skills) > 0 {
		section(&b, "SKILLS")
		b.WriteString(strings.Join(p.Skills, ", "))
		b.WriteString("\n")
	}

	if len(p.WorkExperience) > 0 {
		section(&b, "WORK EXPERIENCE")
		for _, w := range p.WorkExperience {
			end := w.EndDate
			if w.Current {
				end = "Present"
			}
			fmt.Fprintf(&b, "%s - %s\n", w.JobTitle, w.Company)
			if when := dateRange(w.StartDate, end); when != "" || w.Location != "" {
				b.WriteString(strings.Join(nonBlank(when, w.Location), " | "))
				b.WriteString("\n")
			}
			if w.Description != "" {
				b.WriteString(w.Description)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if len(p.Education) > 0 {
		section(&b, "EDUCATION")
		for _, e := range p.Education {
			fmt.Fprintf(&b, "%s - %s\n", e.Degree, e.Institution)
			if line := nonBlank(e.GraduationDate, e.Location); len(line) > 0 {
				b.WriteString(strings.Join(line, " | "))
				b.WriteString("\n")
			}
			if e.GPA != "" {
				fmt.Fprintf(&b, "GPA: %s\n", e.GPA)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Projects) > 0 {
		section(&b, "PROJECTS")
		for _, pr := range p.Projects {
			b.WriteString(pr.Name)
			b.WriteString("\n")
			if pr.Description != "" {
				b.WriteString(pr.Description)
				b.WriteString("\n")
			}
			if len(pr.Technologies) > 0 {
				fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(pr.Technologies, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(p.Certifications) > 0 {
		section(&b, "CERTIFICATIONS")
		for _, c := range p.Certifications {
			b.WriteString(strings.Join(nonBlank(c.Name, c.Issuer, c.IssueDate), " - "))
			b.WriteString("\n")
		}
	}

	if len(p.Languages) > 0 {
		section(&b, "LANGUAGES")
		b.WriteString(strings.Join(p.Languages, ", "))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func nonBlank(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
