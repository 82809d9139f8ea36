package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/shortlister/internal/logger"
	"github.com/jonathan/shortlister/internal/types"
	"go.uber.org/zap"
)

// weightParams maps query parameters to signals
var weightParams = map[string]types.Signal{
	"weight_verified_mastery":  types.SignalVerifiedMastery,
	"weight_experience_match":  types.SignalExperienceMatch,
	"weight_ocr_skills":        types.SignalOCRSkills,
	"weight_project_level":     types.SignalProjectLevel,
	"weight_bonus_skills":      types.SignalBonusSkills,
	"weight_project_relevance": types.SignalProjectRelevance,
}

// handleShortlist returns the ranked applicants of an internship.
// GET /internships/{job_id}/shortlist?weight_*=..&limit=..
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(r.PathValue("job_id"))
	if jobID == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	query := r.URL.Query()
	weights, err := parseWeights(query, s.defaultWeights)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(query)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.ranker.RankCandidates(r.Context(), jobID, weights)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("shortlist failed",
				zap.String(logger.FieldRequestID, logger.RequestID(r.Context())),
				zap.String(logger.FieldJobID, jobID),
				zap.Error(err),
			)
		}
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(s.retryAfter)))
		}
		s.errorResponse(w, status, publicMessage(err, status))
		return
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	s.jsonResponse(w, http.StatusOK, results)
}

// parseWeights reads weight_* parameters; absent ones keep their default.
// Range and sum checks are left to the ranker so there is a single validation path.
func parseWeights(query url.Values, defaults types.SignalWeights) (types.SignalWeights, error) {
	values := make(map[types.Signal]float64, len(weightParams))
	for _, signal := range types.AllSignals() {
		values[signal] = defaults.Get(signal)
	}

	for param, signal := range weightParams {
		raw := strings.TrimSpace(query.Get(param))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.SignalWeights{}, &ErrValidation{Field: param, Message: "must be a number"}
		}
		values[signal] = v
	}

	return types.SignalWeights{
		VerifiedMastery:  values[types.SignalVerifiedMastery],
		ExperienceMatch:  values[types.SignalExperienceMatch],
		OCRSkills:        values[types.SignalOCRSkills],
		ProjectLevel:     values[types.SignalProjectLevel],
		BonusSkills:      values[types.SignalBonusSkills],
		ProjectRelevance: values[types.SignalProjectRelevance],
	}, nil
}

// parseLimit reads the optional limit parameter; 0 means no limit
func parseLimit(query url.Values) (int, error) {
	raw := strings.TrimSpace(query.Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"}
	}
	return limit, nil
}
