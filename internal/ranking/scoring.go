// Package ranking provides the signal calculators and aggregation used to rank applicants against a posting.
package ranking

import (
	"math"

	"github.com/jonathan/shortlister/internal/skills"
	"github.com/jonathan/shortlister/internal/types"
)

const (
	// maxSkillMastery caps the contribution of a single verified skill
	maxSkillMastery = 10.0
	// maxScore is the upper bound of every signal
	maxScore = 100.0
)

// projectLevelScores maps an assessed project tier to its signal score
var projectLevelScores = map[types.ProjectLevel]float64{
	types.ProjectLevelBeginner:     30,
	types.ProjectLevelIntermediate: 60,
	types.ProjectLevelAdvanced:     90,
}

// OCRSkillsScore measures how many required skills the applicant claims.
// A posting without required skills is vacuously satisfied.
func OCRSkillsScore(required, claimed skills.Set) float64 {
	if len(required) == 0 {
		return maxScore
	}
	return float64(required.CountIn(claimed)) / float64(len(required)) * maxScore
}

// BonusSkillsScore measures how many preferred skills the applicant claims.
// A posting without preferred skills offers no bonus.
func BonusSkillsScore(preferred, claimed skills.Set) float64 {
	if len(preferred) == 0 {
		return 0
	}
	return float64(preferred.CountIn(claimed)) / float64(len(preferred)) * maxScore
}

// VerifiedMasteryScore averages the verified mastery of each required skill on a 0-100 scale.
// Keys of mastery must already be normalized. Skills missing from the map count as 0.
func VerifiedMasteryScore(required skills.Set, mastery map[string]float64) float64 {
	if len(required) == 0 {
		return maxScore
	}
	if len(mastery) == 0 {
		return 0
	}

	total := 0.0
	for skill := range required {
		total += clamp(mastery[skill], 0, maxSkillMastery)
	}
	return total / (float64(len(required)) * maxSkillMastery) * maxScore
}

// ExperienceMatchScore is the clamped cosine similarity of the posting and resume embeddings, scaled to 100
func ExperienceMatchScore(jobVec, resumeVec []float32) float64 {
	return CosineSimilarity(jobVec, resumeVec) * maxScore
}

// ProjectRelevanceScore is the clamped cosine similarity of the posting and project embeddings, scaled to 100
func ProjectRelevanceScore(jobVec, projectVec []float32) float64 {
	return CosineSimilarity(jobVec, projectVec) * maxScore
}

// ProjectLevelScore maps the assessed tier to a fixed score; Unknown scores 0
func ProjectLevelScore(level types.ProjectLevel) float64 {
	return projectLevelScores[level]
}

// CosineSimilarity returns the cosine similarity of a and b clamped to [0,1].
// Empty vectors, vectors of different length, and zero vectors all yield 0.
// Negative similarity is floored to 0, which discards anything below orthogonal.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(similarity) {
		return 0
	}
	return clamp(similarity, 0, 1)
}

// VerifiedMasteryMap builds a normalized skill -> mastery lookup.
// When the same normalized skill appears more than once the highest mastery wins.
func VerifiedMasteryMap(verified []types.VerifiedSkill) map[string]float64 {
	mastery := make(map[string]float64, len(verified))
	for _, v := range verified {
		key := skills.Normalize(v.Skill)
		if key == "" {
			continue
		}
		if current, ok := mastery[key]; !ok || v.Mastery > current {
			mastery[key] = v.Mastery
		}
	}
	return mastery
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
