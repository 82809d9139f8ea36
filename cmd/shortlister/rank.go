package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/shortlister/internal/logger"
	"github.com/jonathan/shortlister/internal/observability"
	"github.com/jonathan/shortlister/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the applicants of an internship",
	Long:  "Runs the shortlist pipeline once for a job and prints the ranked applicants as a table or JSON.",
	RunE:  runRank,
}

var (
	rankJobID string
	rankJSON  bool
	rankLimit int
)

// weightFlags maps flag names to signals
var weightFlags = []struct {
	name   string
	signal types.Signal
}{
	{"weight-verified-mastery", types.SignalVerifiedMastery},
	{"weight-experience-match", types.SignalExperienceMatch},
	{"weight-ocr-skills", types.SignalOCRSkills},
	{"weight-project-level", types.SignalProjectLevel},
	{"weight-bonus-skills", types.SignalBonusSkills},
	{"weight-project-relevance", types.SignalProjectRelevance},
}

func init() {
	rankCmd.Flags().StringVarP(&rankJobID, "job-id", "j", "", "Internship ID to rank applicants for (required)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print results as JSON")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "Show only the top N applicants (0 for all)")

	defaults := types.DefaultWeights()
	for _, wf := range weightFlags {
		rankCmd.Flags().Float64(wf.name, defaults.Get(wf.signal), fmt.Sprintf("Weight of the %s signal", wf.signal))
	}

	if err := rankCmd.MarkFlagRequired("job-id"); err != nil {
		panic(fmt.Sprintf("failed to mark job-id flag as required: %v", err))
	}
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	weights, err := weightsFromFlags(cmd.Flags(), a.cfg.DefaultWeights())
	if err != nil {
		return err
	}

	ctx = logger.WithRequestID(ctx, uuid.NewString())
	results, err := a.pipeline.RankCandidates(ctx, rankJobID, weights)
	if err != nil {
		return err
	}
	if rankLimit > 0 && len(results) > rankLimit {
		results = results[:rankLimit]
	}

	return writeResults(os.Stdout, strings.TrimSpace(rankJobID), weights, results, rankJSON)
}

// weightsFromFlags starts from defaults and applies only the weight flags the user set
func weightsFromFlags(flags *pflag.FlagSet, defaults types.SignalWeights) (types.SignalWeights, error) {
	values := make(map[types.Signal]float64, len(weightFlags))
	for _, wf := range weightFlags {
		values[wf.signal] = defaults.Get(wf.signal)
		if !flags.Changed(wf.name) {
			continue
		}
		v, err := flags.GetFloat64(wf.name)
		if err != nil {
			return types.SignalWeights{}, fmt.Errorf("invalid --%s: %w", wf.name, err)
		}
		values[wf.signal] = v
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

// writeResults prints the ranking as indented JSON or as a table
func writeResults(out io.Writer, jobID string, weights types.SignalWeights, results []types.RankedResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(out)
	printer.PrintWeights(weights)
	printer.PrintShortlist(jobID, results)
	return nil
}
