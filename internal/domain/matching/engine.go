package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"job-tracker/internal/domain/job"
)

// ErrAnalysisUnavailable means there is no candidate data to score against.
// It is a terminal state, not a 0% match.
var ErrAnalysisUnavailable = errors.New("no analysis available")

type DataSource string

const (
	SourceProfile        DataSource = "profile"
	SourceUploadedResume DataSource = "uploaded-resume"
)

const (
	maxMissingSkills        = 5
	maxSuggestedSkills      = 2
	resumeExperienceBase    = 85
	resumeExperienceSpan    = 15
	resumeEducationBase     = 80
	resumeEducationSpan     = 20
	educationWithEntries    = 85
	educationWithoutEntries = 50
	recommendationThreshold = 70
	verdictExcellent        = 80
	verdictGood             = 60
	experienceCharsForFull  = 10
)

const (
	RecUploadedResume = "Analysis based on your uploaded resume for this specific job"
	RecHighlight      = "Highlight relevant projects and experience in your resume"
	RecExcellent      = "Excellent match! You should definitely apply for this position"
	RecGood           = "Good match! Consider applying and emphasizing your transferable skills"
	RecGainExperience = "Consider gaining more relevant experience before applying"
)

// CandidateData is what the engine scores a job against, whichever source
// it came from.
type CandidateData struct {
	Skills         []string
	ExperienceText string
	HasEducation   bool
}

type Analysis struct {
	OverallScore    int        `json:"overallScore"`
	SkillsMatch     int        `json:"skillsMatch"`
	ExperienceMatch int        `json:"experienceMatch"`
	EducationMatch  int        `json:"educationMatch"`
	RequiredSkills  []string   `json:"requiredSkills"`
	MatchedSkills   []string   `json:"matchedSkills"`
	MissingSkills   []string   `json:"missingSkills"`
	Recommendations []string   `json:"recommendations"`
	DataSource      DataSource `json:"dataSource"`
	GeneratedAt     time.Time  `json:"generatedAt"`
}

type Engine struct {
	vocab  Vocabulary
	jitter JitterSource
	now    func() time.Time
}

func NewEngine(vocab Vocabulary, jitter JitterSource) *Engine {
	if vocab.Len() == 0 {
		vocab = NewVocabulary(DefaultVocabulary)
	}
	if jitter == nil {
		jitter = FixedJitter(0)
	}
	return &Engine{vocab: vocab, jitter: jitter, now: time.Now}
}

// RequiredSkills extracts the vocabulary tokens named by a job's title and
// details.
func (e *Engine) RequiredSkills(j job.Job) []string {
	return e.vocab.Extract(j.Title + " " + PlainText(j.Details))
}

// Analyze scores candidate against j. A nil candidate yields
// ErrAnalysisUnavailable.
func (e *Engine) Analyze(j job.Job, candidate *CandidateData, source DataSource) (Analysis, error) {
	if candidate == nil {
		return Analysis{}, ErrAnalysisUnavailable
	}
	if source != SourceProfile && source != SourceUploadedResume {
		return Analysis{}, fmt.Errorf("unknown data source %q", source)
	}

	required := e.RequiredSkills(j)
	candSkills := nonEmpty(candidate.Skills)

	matched := make([]string, 0, len(candSkills))
	for _, cs := range candSkills {
		for _, rs := range required {
			if skillsOverlap(cs, rs) {
				matched = append(matched, cs)
				break
			}
		}
	}

	missing := make([]string, 0)
	for _, rs := range required {
		found := false
		for _, cs := range candSkills {
			if skillsOverlap(cs, rs) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, rs)
		}
	}

	skills := 0
	if len(required) > 0 {
		skills = clamp(roundInt(100*float64(len(matched))/float64(len(required))), 0, 100)
	}

	var experience, education int
	if source == SourceUploadedResume {
		experience = resumeExperienceBase + e.jitter.Offset(resumeExperienceSpan)
		education = resumeEducationBase + e.jitter.Offset(resumeEducationSpan)
	} else {
		n := utf8.RuneCountInString(strings.TrimSpace(candidate.ExperienceText))
		experience = clamp(roundInt(float64(n)/experienceCharsForFull*100), 0, 100)
		if candidate.HasEducation {
			education = educationWithEntries
		} else {
			education = educationWithoutEntries
		}
	}

	overall := OverallScore(skills, experience, education)

	return Analysis{
		OverallScore:    overall,
		SkillsMatch:     skills,
		ExperienceMatch: experience,
		EducationMatch:  education,
		RequiredSkills:  required,
		MatchedSkills:   matched,
		MissingSkills:   capList(missing, maxMissingSkills),
		Recommendations: recommend(source, skills, experience, overall, missing),
		DataSource:      source,
		GeneratedAt:     e.now().UTC(),
	}, nil
}

// OverallScore combines sub-scores with the 0.5/0.3/0.2 weighting.
func OverallScore(skills, experience, education int) int {
	return clamp(roundInt(0.5*float64(skills)+0.3*float64(experience)+0.2*float64(education)), 0, 100)
}

func recommend(source DataSource, skills, experience, overall int, missing []string) []string {
	out := make([]string, 0, 4)
	if source == SourceUploadedResume {
		out = append(out, RecUploadedResume)
	}
	if skills < recommendationThreshold && len(missing) > 0 {
		out = append(out, fmt.Sprintf("Consider learning %s to improve your match", strings.Join(capList(missing, maxSuggestedSkills), ", ")))
	}
	if experience < recommendationThreshold {
		out = append(out, RecHighlight)
	}
	switch {
	case overall >= verdictExcellent:
		out = append(out, RecExcellent)
	case overall >= verdictGood:
		out = append(out, RecGood)
	default:
		out = append(out, RecGainExperience)
	}
	return out
}

func skillsOverlap(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capList(in []string, n int) []string {
	if len(in) > n {
		in = in[:n]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
