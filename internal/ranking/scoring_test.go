package ranking

import (
	"math"
	"testing"

	"github.com/jonathan/shortlister/internal/skills"
	"github.com/jonathan/shortlister/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestOCRSkillsScore_PartialMatch(t *testing.T) {
	required := skills.NormalizeSet([]string{"Python", "SQL"})
	claimed := skills.NormalizeSet([]string{"python", "Flask"})

	assert.InDelta(t, 50.0, OCRSkillsScore(required, claimed), 1e-9)
}

func TestOCRSkillsScore_NoRequiredSkills(t *testing.T) {
	claimed := skills.NormalizeSet([]string{"Go"})

	assert.Equal(t, 100.0, OCRSkillsScore(skills.NormalizeSet(nil), claimed))
	assert.Equal(t, 100.0, OCRSkillsScore(skills.NormalizeSet(nil), skills.NormalizeSet(nil)))
}

func TestOCRSkillsScore_NormalizesBeforeComparing(t *testing.T) {
	required := skills.NormalizeSet([]string{"React.js", "Node JS"})
	claimed := skills.NormalizeSet([]string{"reactjs", "NODE.JS"})

	assert.Equal(t, 100.0, OCRSkillsScore(required, claimed))
}

func TestBonusSkillsScore(t *testing.T) {
	claimed := skills.NormalizeSet([]string{"Docker", "AWS"})

	assert.Equal(t, 0.0, BonusSkillsScore(skills.NormalizeSet(nil), claimed))
	assert.InDelta(t, 200.0/3.0, BonusSkillsScore(skills.NormalizeSet([]string{"Redis", "Docker", "AWS"}), claimed), 1e-9)
	assert.Equal(t, 0.0, BonusSkillsScore(skills.NormalizeSet([]string{"Redis"}), claimed))
}

func TestVerifiedMasteryScore(t *testing.T) {
	required := skills.NormalizeSet([]string{"Python", "SQL"})

	t.Run("no required skills", func(t *testing.T) {
		assert.Equal(t, 100.0, VerifiedMasteryScore(skills.NormalizeSet(nil), nil))
	})

	t.Run("no verified data", func(t *testing.T) {
		assert.Equal(t, 0.0, VerifiedMasteryScore(required, nil))
		assert.Equal(t, 0.0, VerifiedMasteryScore(required, map[string]float64{}))
	})

	t.Run("partial mastery", func(t *testing.T) {
		mastery := map[string]float64{"python": 8}
		// (8 + 0) / 20 * 100
		assert.InDelta(t, 40.0, VerifiedMasteryScore(required, mastery), 1e-9)
	})

	t.Run("mastery capped at ten", func(t *testing.T) {
		mastery := map[string]float64{"python": 15, "sql": 10}
		assert.InDelta(t, 100.0, VerifiedMasteryScore(required, mastery), 1e-9)
	})

	t.Run("negative mastery floored", func(t *testing.T) {
		mastery := map[string]float64{"python": -5, "sql": 5}
		assert.InDelta(t, 25.0, VerifiedMasteryScore(required, mastery), 1e-9)
	})
}

func TestVerifiedMasteryMap_NormalizesKeysAndKeepsHighest(t *testing.T) {
	mastery := VerifiedMasteryMap([]types.VerifiedSkill{
		{Skill: "React.js", Mastery: 4},
		{Skill: "reactjs", Mastery: 7},
		{Skill: " ", Mastery: 9},
	})

	assert.Equal(t, map[string]float64{"reactjs": 7}, mastery)
}

func TestProjectLevelScore(t *testing.T) {
	assert.Equal(t, 30.0, ProjectLevelScore(types.ProjectLevelBeginner))
	assert.Equal(t, 60.0, ProjectLevelScore(types.ProjectLevelIntermediate))
	assert.Equal(t, 90.0, ProjectLevelScore(types.ProjectLevelAdvanced))
	assert.Equal(t, 0.0, ProjectLevelScore(types.ProjectLevelUnknown))
	assert.Equal(t, 0.0, ProjectLevelScore(types.ProjectLevel("Expert")))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite floored to zero", []float32{1, 1}, []float32{-1, -1}, 0.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
		{"empty", nil, []float32{1}, 0.0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
		{"45 degrees", []float32{1, 0}, []float32{1, 1}, 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestSemanticScores_NeverNegative(t *testing.T) {
	job := []float32{0.5, -0.2, 0.9}
	opposite := []float32{-0.5, 0.2, -0.9}

	assert.Equal(t, 0.0, ExperienceMatchScore(job, opposite))
	assert.Equal(t, 0.0, ProjectRelevanceScore(job, opposite))
	assert.InDelta(t, 100.0, ExperienceMatchScore(job, job), 1e-4)
}

func TestSemanticScores_ZeroVectorsFromEmptyText(t *testing.T) {
	zero := make([]float32, 8)

	assert.Equal(t, 0.0, ExperienceMatchScore(zero, zero))
	assert.Equal(t, 0.0, ProjectRelevanceScore(zero, []float32{1, 1, 1, 1, 1, 1, 1, 1}))
}

func TestAllSignals_WithinBounds(t *testing.T) {
	jobs := []*types.JobPosting{
		{},
		{RequiredSkills: []string{"Go", "SQL"}, PreferredSkills: []string{"Redis"}},
		{RequiredSkills: []string{"Go"}, PreferredSkills: []string{"Go"}},
	}
	candidates := []types.CandidateProfile{
		{},
		{ClaimedSkills: []string{"go", "sql", "redis"}, VerifiedSkills: []types.VerifiedSkill{{Skill: "Go", Mastery: 50}}},
		{ClaimedSkills: []string{"rust"}, VerifiedSkills: []types.VerifiedSkill{{Skill: "sql", Mastery: -3}}, ProjectLevel: types.ProjectLevelAdvanced},
	}
	vectors := [][]float32{nil, {1, 0, 0}, {-1, 0, 0}, {0.3, 0.3, 0.3}, {0, 0, 0}}

	for _, job := range jobs {
		targets := NewJobTargets(job)
		for i := range candidates {
			for _, jobVec := range vectors {
				for _, candVec := range vectors {
					c := candidates[i]
					c.ResumeEmbedding = candVec
					c.ProjectEmbedding = candVec
					breakdown := ScoreCandidate(targets, &c, jobVec)

					assert.Len(t, breakdown, 6)
					for signal, score := range breakdown {
						assert.GreaterOrEqual(t, score, 0.0, "signal %s", signal)
						assert.LessOrEqual(t, score, 100.0, "signal %s", signal)
					}
				}
			}
		}
	}
}
