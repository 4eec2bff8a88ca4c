package matching

import (
	"errors"
	"testing"

	"job-tracker/internal/domain/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reactJob() job.Job {
	return job.Job{Title: "React Developer", Details: "Must know React, Node.js, AWS"}
}

func TestAnalyze_ReactScenario(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)

	res, err := e.Analyze(reactJob(), &CandidateData{Skills: []string{"React", "Python"}}, SourceProfile)
	require.NoError(t, err)

	assert.Equal(t, []string{"React", "Node.js", "AWS"}, res.RequiredSkills)
	assert.Equal(t, []string{"React"}, res.MatchedSkills)
	assert.Equal(t, []string{"Node.js", "AWS"}, res.MissingSkills)
	assert.Equal(t, 33, res.SkillsMatch)
	assert.Equal(t, 0, res.ExperienceMatch)
	assert.Equal(t, 50, res.EducationMatch)
	assert.Equal(t, OverallScore(33, 0, 50), res.OverallScore)
	assert.Equal(t, []string{
		"Consider learning Node.js, AWS to improve your match",
		RecHighlight,
		RecGainExperience,
	}, res.Recommendations)
	assert.Equal(t, SourceProfile, res.DataSource)
}

func TestAnalyze_NoCandidateIsUnavailable(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)

	res, err := e.Analyze(reactJob(), nil, SourceProfile)
	assert.True(t, errors.Is(err, ErrAnalysisUnavailable))
	assert.Zero(t, res.OverallScore)
}

func TestAnalyze_EmptyRequirementsScoresZeroSkills(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)
	j := job.Job{Title: "Barista", Details: "<p>Make coffee</p>"}

	res, err := e.Analyze(j, &CandidateData{Skills: []string{"Go"}, ExperienceText: "ten years of latte art", HasEducation: true}, SourceProfile)
	require.NoError(t, err)

	assert.Empty(t, res.RequiredSkills)
	assert.Equal(t, 0, res.SkillsMatch)
	assert.Empty(t, res.MatchedSkills)
	assert.NotNil(t, res.MissingSkills)
	assert.Equal(t, 100, res.ExperienceMatch)
	assert.Equal(t, 85, res.EducationMatch)
	assert.Equal(t, 47, res.OverallScore)
	assert.Equal(t, []string{RecGainExperience}, res.Recommendations)
}

func TestAnalyze_UploadedResumeUsesJitterBases(t *testing.T) {
	e := NewEngine(Vocabulary{}, FixedJitter(0))

	res, err := e.Analyze(reactJob(), &CandidateData{Skills: []string{"React", "Node.js", "AWS"}}, SourceUploadedResume)
	require.NoError(t, err)

	assert.Equal(t, 100, res.SkillsMatch)
	assert.Equal(t, 85, res.ExperienceMatch)
	assert.Equal(t, 80, res.EducationMatch)
	assert.Equal(t, 92, res.OverallScore)
	assert.Equal(t, []string{RecUploadedResume, RecExcellent}, res.Recommendations)
}

func TestAnalyze_SeededJitterStaysInRange(t *testing.T) {
	e := NewEngine(Vocabulary{}, NewSeededJitter(42))
	for i := 0; i < 200; i++ {
		res, err := e.Analyze(reactJob(), &CandidateData{Skills: []string{"React"}}, SourceUploadedResume)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.ExperienceMatch, 85)
		assert.Less(t, res.ExperienceMatch, 100)
		assert.GreaterOrEqual(t, res.EducationMatch, 80)
		assert.Less(t, res.EducationMatch, 100)
	}
}

func TestAnalyze_SeededJitterIsReproducible(t *testing.T) {
	a := NewEngine(Vocabulary{}, NewSeededJitter(7))
	b := NewEngine(Vocabulary{}, NewSeededJitter(7))
	c := &CandidateData{Skills: []string{"React"}}

	ra, err := a.Analyze(reactJob(), c, SourceUploadedResume)
	require.NoError(t, err)
	rb, err := b.Analyze(reactJob(), c, SourceUploadedResume)
	require.NoError(t, err)

	assert.Equal(t, ra.ExperienceMatch, rb.ExperienceMatch)
	assert.Equal(t, ra.EducationMatch, rb.EducationMatch)
}

func TestAnalyze_SetProperties(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)
	j := job.Job{
		Title:   "Full Stack Engineer",
		Details: "<ul><li>TypeScript</li><li>Docker</li><li>Kubernetes</li><li>GraphQL</li><li>MongoDB</li><li>Agile</li><li>Git</li></ul>",
	}
	cand := &CandidateData{Skills: []string{"typescript", "Go", "git"}, ExperienceText: "abc"}

	res, err := e.Analyze(j, cand, SourceProfile)
	require.NoError(t, err)

	for _, m := range res.MatchedSkills {
		assert.Contains(t, cand.Skills, m)
	}
	for _, m := range res.MissingSkills {
		assert.Contains(t, res.RequiredSkills, m)
		for _, cs := range res.MatchedSkills {
			assert.False(t, skillsOverlap(cs, m), "%s matched and missing", m)
		}
	}
	assert.LessOrEqual(t, len(res.MissingSkills), 5)
	assert.Equal(t, 30, res.ExperienceMatch)
	assert.Equal(t, OverallScore(res.SkillsMatch, res.ExperienceMatch, res.EducationMatch), res.OverallScore)
	assert.GreaterOrEqual(t, res.OverallScore, 0)
	assert.LessOrEqual(t, res.OverallScore, 100)
}

func TestAnalyze_SkillsMatchNeverExceeds100(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)
	j := job.Job{Title: "Java Developer"}

	res, err := e.Analyze(j, &CandidateData{Skills: []string{"Java", "java ee", "Java 17"}}, SourceProfile)
	require.NoError(t, err)
	assert.Equal(t, 100, res.SkillsMatch)
}

func TestAnalyze_UnknownSource(t *testing.T) {
	e := NewEngine(Vocabulary{}, nil)
	_, err := e.Analyze(reactJob(), &CandidateData{}, DataSource("linkedin"))
	assert.Error(t, err)
}

func TestPlainText_SeparatesBlocks(t *testing.T) {
	assert.Equal(t, "React Node.js", PlainText("<p>React</p><p>Node.js</p>"))
	assert.Equal(t, "plain text here", PlainText("  plain \n text here "))
	assert.Equal(t, "Go", PlainText("<div><script>var x = 'python'</script>Go</div>"))
}

func TestVocabulary_ExtractKeepsOrder(t *testing.T) {
	v := NewVocabulary([]string{"AWS", "Go", "aws", " "})
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []string{"AWS", "Go"}, v.Extract("we use go on aws"))
}

func TestJitterByName(t *testing.T) {
	assert.Equal(t, FixedJitter(3), JitterByName("fixed", 0, 3))
	assert.Equal(t, 14, FixedJitter(99).Offset(15))
	assert.Equal(t, 0, FixedJitter(-1).Offset(15))
	assert.NotNil(t, JitterByName("seeded", 1, 0))
}
