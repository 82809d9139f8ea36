package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/shortlister/internal/skills"
	"github.com/jonathan/shortlister/internal/types"
)

// JobTargets holds the normalized skill sets of a posting, computed once per request
type JobTargets struct {
	Required  skills.Set
	Preferred skills.Set
}

// NewJobTargets normalizes the posting's required and preferred skills
func NewJobTargets(job *types.JobPosting) JobTargets {
	return JobTargets{
		Required:  skills.NormalizeSet(job.RequiredSkills),
		Preferred: skills.NormalizeSet(job.PreferredSkills),
	}
}

// MatchedSkills returns the normalized required and preferred skills the candidate claims
func MatchedSkills(targets JobTargets, candidate *types.CandidateProfile) (required, preferred []string) {
	claimed := skills.NormalizeSet(candidate.ClaimedSkills)
	return skills.Intersect(targets.Required, claimed), skills.Intersect(targets.Preferred, claimed)
}

// ScoreCandidate computes all six signals for one applicant.
// The candidate's embeddings must already be populated; missing embeddings score 0.
func ScoreCandidate(targets JobTargets, candidate *types.CandidateProfile, jobVec []float32) types.ScoreBreakdown {
	claimed := skills.NormalizeSet(candidate.ClaimedSkills)

	return types.ScoreBreakdown{
		types.SignalVerifiedMastery:  VerifiedMasteryScore(targets.Required, VerifiedMasteryMap(candidate.VerifiedSkills)),
		types.SignalExperienceMatch:  ExperienceMatchScore(jobVec, candidate.ResumeEmbedding),
		types.SignalOCRSkills:        OCRSkillsScore(targets.Required, claimed),
		types.SignalProjectLevel:     ProjectLevelScore(candidate.ProjectLevel),
		types.SignalBonusSkills:      BonusSkillsScore(targets.Preferred, claimed),
		types.SignalProjectRelevance: ProjectRelevanceScore(jobVec, candidate.ProjectEmbedding),
	}
}

// Aggregate combines a breakdown into the weighted final score, rounded to 2 decimals
func Aggregate(breakdown types.ScoreBreakdown, weights types.SignalWeights) float64 {
	total := 0.0
	for _, signal := range types.AllSignals() {
		total += breakdown[signal] * weights.Get(signal)
	}
	return Round2(total)
}

// Rank sorts results by final score (descending). Equal scores keep their input order.
func Rank(results []types.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
}

// Shortlist scores every candidate against the posting and returns them ranked.
// Weights are assumed to be validated by the caller.
func Shortlist(job *types.JobPosting, candidates []types.CandidateProfile, jobVec []float32, weights types.SignalWeights) []types.RankedResult {
	targets := NewJobTargets(job)

	results := make([]types.RankedResult, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		breakdown := ScoreCandidate(targets, candidate, jobVec)

		results = append(results, types.RankedResult{
			CandidateID: candidate.ID,
			Name:        candidate.Name,
			FinalScore:  Aggregate(breakdown, weights),
			Breakdown:   roundBreakdown(breakdown),
		})
	}

	Rank(results)
	return results
}

// Round2 rounds to two decimal places, halves away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundBreakdown rounds each signal for reporting
func roundBreakdown(breakdown types.ScoreBreakdown) types.ScoreBreakdown {
	rounded := make(types.ScoreBreakdown, len(breakdown))
	for signal, score := range breakdown {
		rounded[signal] = Round2(score)
	}
	return rounded
}
