package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_AreValid(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
}

func TestSignalWeights_Validate_SumBounds(t *testing.T) {
	base := SignalWeights{
		ExperienceMatch:  0.25,
		OCRSkills:        0.15,
		ProjectLevel:     0.10,
		BonusSkills:      0.10,
		ProjectRelevance: 0.05,
	}

	tests := []struct {
		name            string
		verifiedMastery float64
		wantErr         bool
	}{
		{"sum 0.95 rejected", 0.30, true},
		{"sum 1.05 rejected", 0.40, true},
		{"sum 0.995 accepted", 0.345, false},
		{"sum 1.005 accepted", 0.355, false},
		{"sum 1.0 accepted", 0.35, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := base
			w.VerifiedMastery = tt.verifiedMastery
			err := w.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var weightsErr *WeightsError
				assert.True(t, errors.As(err, &weightsErr))
				assert.Contains(t, err.Error(), "must sum to 1.0")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignalWeights_Validate_RejectsOutOfRangeWeight(t *testing.T) {
	w := SignalWeights{
		VerifiedMastery: 1.5,
		ExperienceMatch: -0.5,
	}

	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 1")
}

func TestSignalWeights_Get(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 0.35, w.Get(SignalVerifiedMastery))
	assert.Equal(t, 0.25, w.Get(SignalExperienceMatch))
	assert.Equal(t, 0.15, w.Get(SignalOCRSkills))
	assert.Equal(t, 0.10, w.Get(SignalProjectLevel))
	assert.Equal(t, 0.10, w.Get(SignalBonusSkills))
	assert.Equal(t, 0.05, w.Get(SignalProjectRelevance))
	assert.Equal(t, 0.0, w.Get(Signal("unknown")))
}

func TestSignalWeights_Normalized(t *testing.T) {
	w := DefaultWeights().Scale(3)
	assert.InDelta(t, 3.0, w.Sum(), 1e-9)

	n := w.Normalized()
	assert.InDelta(t, 1.0, n.Sum(), 1e-9)
	assert.InDelta(t, 0.35, n.VerifiedMastery, 1e-9)

	zero := SignalWeights{}
	assert.Equal(t, zero, zero.Normalized())
}

func TestAllSignals_HasSixDistinctEntries(t *testing.T) {
	signals := AllSignals()
	require.Len(t, signals, 6)

	seen := make(map[Signal]bool)
	for _, s := range signals {
		assert.False(t, seen[s], "duplicate signal %s", s)
		seen[s] = true
	}
}
