// Package types provides type definitions for structured data used throughout the shortlister.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ProjectLevel is the qualitative tier of a candidate's best project
type ProjectLevel string

// Project level values
const (
	ProjectLevelUnknown      ProjectLevel = ""
	ProjectLevelBeginner     ProjectLevel = "Beginner"
	ProjectLevelIntermediate ProjectLevel = "Intermediate"
	ProjectLevelAdvanced     ProjectLevel = "Advanced"
)

// ParseProjectLevel maps free-form text onto a ProjectLevel.
// Matching is case-insensitive and ignores surrounding whitespace and punctuation.
// The second return value is false when the text is not one of the three known tiers.
func ParseProjectLevel(s string) (ProjectLevel, bool) {
	s = strings.Trim(strings.TrimSpace(s), `."'`)
	switch strings.ToLower(s) {
	case "beginner":
		return ProjectLevelBeginner, true
	case "intermediate":
		return ProjectLevelIntermediate, true
	case "advanced":
		return ProjectLevelAdvanced, true
	default:
		return ProjectLevelUnknown, false
	}
}

// IsKnown reports whether the level is one of the three assessed tiers
func (l ProjectLevel) IsKnown() bool {
	switch l {
	case ProjectLevelBeginner, ProjectLevelIntermediate, ProjectLevelAdvanced:
		return true
	default:
		return false
	}
}

// String returns "Unknown" for the zero value
func (l ProjectLevel) String() string {
	if l == ProjectLevelUnknown {
		return "Unknown"
	}
	return string(l)
}

// JobPosting is the posting candidates are ranked against
type JobPosting struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
}

// VerifiedSkill is an externally assessed skill with a 0-10 mastery level
type VerifiedSkill struct {
	Skill   string  `json:"skill"`
	Mastery float64 `json:"mastery"`
}

// CandidateRow is a raw candidate record as returned by the record store
type CandidateRow struct {
	ID             string
	Name           string
	ResumeText     string
	ProjectText    string
	ClaimedSkills  []string
	VerifiedSkills []VerifiedSkill
	// StoredLevel is empty when no project level has been recorded
	StoredLevel string
}

// CandidateProfile is an applicant assembled for one ranking request
type CandidateProfile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ResumeText     string          `json:"resume_text"`
	ClaimedSkills  []string        `json:"claimed_skills"`
	ProjectText    string          `json:"project_text"`
	VerifiedSkills []VerifiedSkill `json:"verified_skills"`
	ProjectLevel   ProjectLevel    `json:"project_level"`

	// Populated by the pipeline once embeddings are retrieved
	ResumeEmbedding  []float32 `json:"-"`
	ProjectEmbedding []float32 `json:"-"`
}
