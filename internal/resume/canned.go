package resume

import (
	"strings"

	"job-tracker/internal/domain/profile"
)

func cannedText(fileName string) string {
	name := strings.TrimSpace(fileName)
	for _, ext := range []string{".pdf", ".docx", ".doc"} {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		name = "Candidate"
	}
	return name + ` Resume
Senior Software Engineer

EXPERIENCE:
- 5+ years of experience in React, TypeScript, Node.js
- Led development of scalable web applications
- Experience with AWS, Docker, Kubernetes
- Proficient in Python, JavaScript, SQL
- Agile/Scrum methodologies

SKILLS:
React, TypeScript, Node.js, Python, JavaScript, HTML, CSS, AWS, Docker, Kubernetes, MongoDB, PostgreSQL, Git, Agile, Scrum, GraphQL, REST API

EDUCATION:
Bachelor of Science in Computer Science
University of Technology, 2018

PROJECTS:
- E-commerce platform using React and Node.js
- Microservices architecture with Docker
- Machine Learning model deployment`
}

func cannedProfile() profile.CandidateProfile {
	return profile.CandidateProfile{
		FullName:            "John Doe",
		Phone:               "+1 (555) 123-4567",
		Location:            "San Francisco, CA",
		LinkedInURL:         "https://linkedin.com/in/johndoe",
		GitHubURL:           "https://github.com/johndoe",
		PortfolioURL:        "https://johndoe.dev",
		ProfessionalSummary: "Senior Software Engineer with 5+ years of full-stack development across React, Node.js and cloud platforms. Has led teams shipping scalable web applications.",
		Skills: []string{
			"React", "TypeScript", "JavaScript", "Node.js", "Python", "AWS",
			"Docker", "Kubernetes", "MongoDB", "PostgreSQL", "Git", "Agile",
		},
		WorkExperience: []profile.WorkExperience{
			{
				JobTitle:    "Senior Software Engineer",
				Company:     "Tech Corp Inc.",
				Location:    "San Francisco, CA",
				StartDate:   "2021-03-01",
				Current:     true,
				Description: "Led a microservices architecture serving 1M+ users. Built CI/CD pipelines that cut deployment time by 60%. Mentored junior developers.",
			},
			{
				JobTitle:    "Full Stack Developer",
				Company:     "StartupXYZ",
				Location:    "San Francisco, CA",
				StartDate:   "2019-06-01",
				EndDate:     "2021-02-28",
				Description: "Built responsive web applications with React and Node.js and integrated third-party payment APIs.",
			},
		},
		Education: []profile.Education{
			{
				Degree:         "Bachelor of Science in Computer Science",
				Institution:    "University of California, Berkeley",
				Location:       "Berkeley, CA",
				GraduationDate: "2019-05-15",
				GPA:            "3.8",
				Description:    "Coursework: Data Structures, Algorithms, Software Engineering, Database Systems, Machine Learning",
			},
		},
		Projects: []profile.Project{
			{
				Name:         "E-commerce Platform",
				Description:  "Full-stack shop with authentication, payments and inventory management.",
				Technologies: []string{"React", "Node.js", "MongoDB", "Stripe API", "AWS"},
				URL:          "https://github.com/johndoe/ecommerce-platform",
				StartDate:    "2020-01-01",
				EndDate:      "2020-06-01",
			},
			{
				Name:         "Task Management App",
				Description:  "Collaborative task board with real-time updates and drag-and-drop.",
				Technologies: []string{"React", "Socket.io", "Express.js", "PostgreSQL"},
				URL:          "https://github.com/johndoe/task-manager",
				StartDate:    "2020-07-01",
				EndDate:      "2020-12-01",
			},
		},
		Certifications: []profile.Certification{
			{
				Name:         "AWS Certified Solutions Architect",
				Issuer:       "Amazon Web Services",
				IssueDate:    "2022-03-15",
				ExpiryDate:   "2025-03-15",
				CredentialID: "AWS-SAA-123456",
			},
		},
		Languages: []string{"English (Native)", "Spanish (Conversational)", "French (Basic)"},
	}
}
