package assessment

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/shortlister/internal/logger"
	"github.com/jonathan/shortlister/internal/types"
	"go.uber.org/zap"
)

// MinProjectTextLength is the shortest trimmed project description worth classifying.
// Anything shorter is treated as a Beginner project without calling the classifier.
const MinProjectTextLength = 20

// Resolver determines each candidate's project level
type Resolver struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewResolver creates a resolver. A nil classifier makes every unresolved
// candidate fall back to Beginner.
func NewResolver(classifier Classifier, log *zap.Logger) *Resolver {
	return &Resolver{classifier: classifier, logger: logger.OrNop(log)}
}

// Resolve returns the stored level when it is known, otherwise classifies projectText.
// A stored value outside the three tiers is treated as missing.
// It never fails: short text resolves to Beginner, a malformed classifier answer to
// Intermediate and any other classifier failure to Beginner.
func (r *Resolver) Resolve(ctx context.Context, candidateID, projectText, stored string) types.ProjectLevel {
	if level, ok := types.ParseProjectLevel(stored); ok {
		return level
	}

	text := strings.TrimSpace(projectText)
	if len([]rune(text)) < MinProjectTextLength {
		return types.ProjectLevelBeginner
	}

	if r.classifier == nil {
		return types.ProjectLevelBeginner
	}

	level, err := r.classifier.ClassifyProjectLevel(ctx, text)
	if err == nil && level.IsKnown() {
		return level
	}

	var malformed *MalformedResponseError
	if err == nil || errors.As(err, &malformed) {
		r.logger.Warn("classifier returned an unknown project level, using Intermediate",
			zap.String(logger.FieldCandidateID, candidateID),
			zap.Error(err),
		)
		return types.ProjectLevelIntermediate
	}

	r.logger.Warn("project level classification failed, using Beginner",
		zap.String(logger.FieldCandidateID, candidateID),
		zap.Error(err),
	)
	return types.ProjectLevelBeginner
}
