package matching

import "strings"

// DefaultVocabulary is the fixed list of skill tokens looked for in a job's
// requirement text. Order is significant: extracted skills keep it.
var DefaultVocabulary = []string{
	"React", "TypeScript", "JavaScript", "Node.js", "Python", "Java", "C++", "HTML", "CSS",
	"AWS", "Docker", "Kubernetes", "MongoDB", "PostgreSQL", "MySQL", "Git", "Agile", "Scrum",
	"Vue.js", "Angular", "Express.js", "GraphQL", "REST API", "Microservices", "DevOps",
	"Machine Learning", "Data Science", "TensorFlow", "PyTorch", "Pandas", "NumPy",
	"Leadership", "Communication", "Problem Solving", "Team Work",
}

type Vocabulary struct {
	tokens []string
	lower  []string
}

func NewVocabulary(tokens []string) Vocabulary {
	v := Vocabulary{}
	seen := map[string]struct{}{}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		v.tokens = append(v.tokens, t)
		v.lower = append(v.lower, k)
	}
	return v
}

func (v Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

func (v Vocabulary) Len() int {
	return len(v.tokens)
}

// Extract returns every token that occurs in text as a case-insensitive
// substring, in vocabulary order.
func (v Vocabulary) Extract(text string) []string {
	lt := strings.ToLower(text)
	out := make([]string, 0)
	for i, t := range v.lower {
		if strings.Contains(lt, t) {
			out = append(out, v.tokens[i])
		}
	}
	return out
}
