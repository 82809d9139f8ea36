package types

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Tolerance bounds for the sum of all signal weights
const (
	MinWeightSum = 0.99
	MaxWeightSum = 1.01
)

// Signal names one of the six scores contributing to a candidate's rank
type Signal string

// Signal names as reported in score breakdowns
const (
	SignalVerifiedMastery  Signal = "verified_mastery"
	SignalExperienceMatch  Signal = "experience_match"
	SignalOCRSkills        Signal = "ocr_skills"
	SignalProjectLevel     Signal = "project_level"
	SignalBonusSkills      Signal = "bonus_skills"
	SignalProjectRelevance Signal = "project_relevance"
)

// AllSignals returns every signal in a fixed order
func AllSignals() []Signal {
	return []Signal{
		SignalVerifiedMastery,
		SignalExperienceMatch,
		SignalOCRSkills,
		SignalProjectLevel,
		SignalBonusSkills,
		SignalProjectRelevance,
	}
}

// SignalWeights carries exactly one weight per signal
type SignalWeights struct {
	VerifiedMastery  float64 `json:"verified_mastery" yaml:"verified_mastery" validate:"gte=0,lte=1"`
	ExperienceMatch  float64 `json:"experience_match" yaml:"experience_match" validate:"gte=0,lte=1"`
	OCRSkills        float64 `json:"ocr_skills" yaml:"ocr_skills" validate:"gte=0,lte=1"`
	ProjectLevel     float64 `json:"project_level" yaml:"project_level" validate:"gte=0,lte=1"`
	BonusSkills      float64 `json:"bonus_skills" yaml:"bonus_skills" validate:"gte=0,lte=1"`
	ProjectRelevance float64 `json:"project_relevance" yaml:"project_relevance" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the weights used when a caller does not supply any
func DefaultWeights() SignalWeights {
	return SignalWeights{
		VerifiedMastery:  0.35,
		ExperienceMatch:  0.25,
		OCRSkills:        0.15,
		ProjectLevel:     0.10,
		BonusSkills:      0.10,
		ProjectRelevance: 0.05,
	}
}

// WeightsError reports a weight configuration that cannot be used for scoring
type WeightsError struct {
	Message string
	Cause   error
}

func (e *WeightsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid weights: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid weights: %s", e.Message)
}

func (e *WeightsError) Unwrap() error {
	return e.Cause
}

// Validate checks that every weight lies in [0,1] and that the weights sum to 1.0 +/- 0.01.
func (w SignalWeights) Validate() error {
	validate := validator.New()
	if err := validate.Struct(w); err != nil {
		return &WeightsError{Message: "each weight must be between 0 and 1", Cause: err}
	}

	sum := w.Sum()
	if math.IsNaN(sum) || sum < MinWeightSum || sum > MaxWeightSum {
		return &WeightsError{Message: fmt.Sprintf("weights must sum to 1.0 (or very close), but received: %g", sum)}
	}
	return nil
}

// Sum returns the total of all six weights
func (w SignalWeights) Sum() float64 {
	return w.VerifiedMastery + w.ExperienceMatch + w.OCRSkills +
		w.ProjectLevel + w.BonusSkills + w.ProjectRelevance
}

// Get returns the weight for a signal, or 0 for an unknown signal
func (w SignalWeights) Get(s Signal) float64 {
	switch s {
	case SignalVerifiedMastery:
		return w.VerifiedMastery
	case SignalExperienceMatch:
		return w.ExperienceMatch
	case SignalOCRSkills:
		return w.OCRSkills
	case SignalProjectLevel:
		return w.ProjectLevel
	case SignalBonusSkills:
		return w.BonusSkills
	case SignalProjectRelevance:
		return w.ProjectRelevance
	default:
		return 0
	}
}

// Scale returns the weights multiplied by k
func (w SignalWeights) Scale(k float64) SignalWeights {
	return SignalWeights{
		VerifiedMastery:  w.VerifiedMastery * k,
		ExperienceMatch:  w.ExperienceMatch * k,
		OCRSkills:        w.OCRSkills * k,
		ProjectLevel:     w.ProjectLevel * k,
		BonusSkills:      w.BonusSkills * k,
		ProjectRelevance: w.ProjectRelevance * k,
	}
}

// Normalized rescales the weights so they sum to exactly 1.
// Weights summing to zero are returned unchanged.
func (w SignalWeights) Normalized() SignalWeights {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	return w.Scale(1 / sum)
}
