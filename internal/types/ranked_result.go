package types

// ScoreBreakdown maps each signal to its 0-100 score
type ScoreBreakdown map[Signal]float64

// RankedResult is one candidate's position in a shortlist
type RankedResult struct {
	CandidateID string         `json:"applicant_id"`
	Name        string         `json:"name"`
	FinalScore  float64        `json:"final_score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
}
