package dto

import "job-tracker/internal/domain/matching"

const MessageAnalysisUnavailable = "Complete your profile or upload a resume for this job to see your match analysis"

// MatchResponse separates "no data to score" from a real score of zero.
type MatchResponse struct {
	Available bool               `json:"available"`
	Message   string             `json:"message,omitempty"`
	Analysis  *matching.Analysis `json:"analysis,omitempty"`
}
