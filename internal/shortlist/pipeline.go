// Package shortlist ranks the applicants of a job posting.
//
// A request runs in three stages. Stage 1 loads the job and its candidates on the
// worker pool and resolves project levels. Stage 2 embeds the job description and
// every resume and project text concurrently. Stage 3 scores and sorts on the pool.
// Each stage starts only after the previous one has fully completed.
package shortlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/shortlister/internal/assessment"
	"github.com/jonathan/shortlister/internal/embedding"
	"github.com/jonathan/shortlister/internal/logger"
	"github.com/jonathan/shortlister/internal/ranking"
	"github.com/jonathan/shortlister/internal/types"
	"github.com/jonathan/shortlister/internal/workerpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store provides job and candidate records
type Store interface {
	// GetJob returns nil, nil when the job does not exist
	GetJob(ctx context.Context, jobID string) (*types.JobPosting, error)
	// GetCandidatesForJob returns the job's applicant rows in arrival order
	GetCandidatesForJob(ctx context.Context, jobID string) ([]types.CandidateRow, error)
}

// Pipeline ranks candidates for a job
type Pipeline struct {
	store    Store
	resolver *assessment.Resolver
	embedder embedding.Provider
	pool     *workerpool.Pool
	logger   *zap.Logger
}

// New creates a pipeline. The pool is shared and owned by the caller.
func New(store Store, resolver *assessment.Resolver, embedder embedding.Provider, pool *workerpool.Pool, log *zap.Logger) *Pipeline {
	if resolver == nil {
		resolver = assessment.NewResolver(nil, log)
	}
	return &Pipeline{
		store:    store,
		resolver: resolver,
		embedder: embedder,
		pool:     pool,
		logger:   logger.OrNop(log),
	}
}

// fetchResult is the output of stage 1
type fetchResult struct {
	job        *types.JobPosting
	candidates []types.CandidateProfile
}

// embeddingBatch is the output of stage 2, indexed like fetchResult.candidates
type embeddingBatch struct {
	job      []float32
	resumes  [][]float32
	projects [][]float32
}

// RankCandidates returns the job's candidates ranked by weighted score, best first.
// Errors are *Error values; no partial ranking is ever returned.
func (p *Pipeline) RankCandidates(ctx context.Context, jobID string, weights types.SignalWeights) ([]types.RankedResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Stage: StageValidate, Message: err.Error(), Cause: err}
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, &Error{Kind: KindValidation, Stage: StageValidate, Message: "job id is required"}
	}

	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := p.logger.With(
		zap.String(logger.FieldRequestID, requestID),
		zap.String(logger.FieldJobID, jobID),
	)
	started := time.Now()

	if err := checkpoint(ctx, StageFetch); err != nil {
		return nil, err
	}
	stageStart := time.Now()
	fetched, err := p.fetch(ctx, jobID, log)
	if err != nil {
		log.Warn("ranking failed", zap.String(logger.FieldStage, string(StageFetch)), zap.Error(err))
		return nil, err
	}
	log.Debug("stage complete",
		zap.String(logger.FieldStage, string(StageFetch)),
		zap.Int("candidates", len(fetched.candidates)),
		zap.Duration("duration", time.Since(stageStart)),
	)

	if len(fetched.candidates) == 0 {
		log.Info("no candidates to rank", zap.Duration("duration", time.Since(started)))
		return []types.RankedResult{}, nil
	}

	if err := checkpoint(ctx, StageEmbed); err != nil {
		return nil, err
	}
	stageStart = time.Now()
	batch, err := p.embed(ctx, fetched)
	if err != nil {
		log.Warn("ranking failed", zap.String(logger.FieldStage, string(StageEmbed)), zap.Error(err))
		return nil, err
	}
	log.Debug("stage complete",
		zap.String(logger.FieldStage, string(StageEmbed)),
		zap.Int("embeddings", 2*len(fetched.candidates)+1),
		zap.Duration("duration", time.Since(stageStart)),
	)

	if err := checkpoint(ctx, StageScore); err != nil {
		return nil, err
	}
	stageStart = time.Now()
	results, err := p.score(ctx, fetched, batch, weights, log)
	if err != nil {
		log.Warn("ranking failed", zap.String(logger.FieldStage, string(StageScore)), zap.Error(err))
		return nil, err
	}
	log.Debug("stage complete",
		zap.String(logger.FieldStage, string(StageScore)),
		zap.Duration("duration", time.Since(stageStart)),
	)

	log.Info("ranked candidates",
		zap.Int("candidates", len(results)),
		zap.Duration("duration", time.Since(started)),
	)
	return results, nil
}

// fetch loads the job and candidate rows, then resolves unknown project levels.
// Each blocking step is a pool task; the resolution tasks are submitted from here
// so that no task ever waits on another one.
func (p *Pipeline) fetch(ctx context.Context, jobID string, log *zap.Logger) (*fetchResult, error) {
	var (
		job  *types.JobPosting
		rows []types.CandidateRow
	)
	err := p.pool.Submit(ctx, func(ctx context.Context) error {
		var err error
		job, err = p.store.GetJob(ctx, jobID)
		if err != nil {
			return &Error{Kind: KindInternal, Stage: StageFetch, Message: "failed to load job", Cause: err}
		}
		if job == nil {
			return &Error{Kind: KindNotFound, Stage: StageFetch, Message: "job not found: " + jobID}
		}
		rows, err = p.store.GetCandidatesForJob(ctx, jobID)
		if err != nil {
			return &Error{Kind: KindInternal, Stage: StageFetch, Message: "failed to load candidates", Cause: err}
		}
		return nil
	}).Wait(ctx)
	if err != nil {
		return nil, asStageError(err, StageFetch)
	}

	candidates, stored := buildProfiles(rows, log)

	futures := make([]*workerpool.Future, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		level := stored[i]
		futures[i] = p.pool.Submit(ctx, func(ctx context.Context) error {
			c.ProjectLevel = p.resolver.Resolve(ctx, c.ID, c.ProjectText, level)
			return nil
		})
	}
	for _, f := range futures {
		if err := f.Wait(ctx); err != nil {
			return nil, asStageError(err, StageFetch)
		}
	}

	return &fetchResult{job: job, candidates: candidates}, nil
}

// buildProfiles drops rows without resume text and repeated candidate IDs. The first
// row keeps both its position and its data, so a later row's project level is ignored.
// It returns the profiles with the stored level of each one.
func buildProfiles(rows []types.CandidateRow, log *zap.Logger) ([]types.CandidateProfile, []string) {
	profiles := make([]types.CandidateProfile, 0, len(rows))
	stored := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.ResumeText) == "" {
			log.Debug("skipping candidate without resume text", zap.String(logger.FieldCandidateID, row.ID))
			continue
		}
		if _, dup := seen[row.ID]; dup {
			continue
		}
		seen[row.ID] = struct{}{}

		profiles = append(profiles, types.CandidateProfile{
			ID:             row.ID,
			Name:           row.Name,
			ResumeText:     row.ResumeText,
			ClaimedSkills:  row.ClaimedSkills,
			ProjectText:    row.ProjectText,
			VerifiedSkills: row.VerifiedSkills,
		})
		stored = append(stored, row.StoredLevel)
	}
	return profiles, stored
}

// embed issues 2n+1 concurrent embedding calls. The first failure cancels the rest
// and fails the whole batch.
func (p *Pipeline) embed(ctx context.Context, fetched *fetchResult) (*embeddingBatch, error) {
	n := len(fetched.candidates)
	batch := &embeddingBatch{
		resumes:  make([][]float32, n),
		projects: make([][]float32, n),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := p.embedder.Embed(gctx, fetched.job.Description)
		batch.job = vec
		return err
	})
	for i := range fetched.candidates {
		c := fetched.candidates[i]
		g.Go(func() error {
			vec, err := p.embedder.Embed(gctx, c.ResumeText)
			batch.resumes[i] = vec
			return err
		})
		g.Go(func() error {
			vec, err := p.embedder.Embed(gctx, c.ProjectText)
			batch.projects[i] = vec
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, embeddingError(ctx, err)
	}
	return batch, nil
}

func embeddingError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindInternal, Stage: StageEmbed, Message: "request cancelled", Cause: ctxErr}
	}

	var upstream *embedding.UpstreamError
	if errors.As(err, &upstream) && !upstream.Retryable {
		return &Error{Kind: KindMalformedUpstream, Stage: StageEmbed, Message: "embedding service rejected the batch", Cause: err}
	}
	return &Error{
		Kind:      KindUpstreamUnavailable,
		Stage:     StageEmbed,
		Message:   "embedding service unavailable",
		Cause:     err,
		Retryable: true,
	}
}

// score computes every breakdown and the final ranking on the pool
func (p *Pipeline) score(ctx context.Context, fetched *fetchResult, batch *embeddingBatch, weights types.SignalWeights, log *zap.Logger) ([]types.RankedResult, error) {
	var results []types.RankedResult
	err := p.pool.Submit(ctx, func(_ context.Context) error {
		candidates := make([]types.CandidateProfile, len(fetched.candidates))
		for i, c := range fetched.candidates {
			c.ResumeEmbedding = batch.resumes[i]
			c.ProjectEmbedding = batch.projects[i]
			candidates[i] = c
		}
		results = ranking.Shortlist(fetched.job, candidates, batch.job, weights)
		logMatchedSkills(log, fetched.job, candidates)
		return nil
	}).Wait(ctx)
	if err != nil {
		return nil, asStageError(err, StageScore)
	}
	return results, nil
}

// logMatchedSkills reports, at debug level, which posting skills each candidate claims
func logMatchedSkills(log *zap.Logger, job *types.JobPosting, candidates []types.CandidateProfile) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}
	targets := ranking.NewJobTargets(job)
	for i := range candidates {
		required, preferred := ranking.MatchedSkills(targets, &candidates[i])
		log.Debug("matched skills",
			zap.String(logger.FieldCandidateID, candidates[i].ID),
			zap.Strings("required", required),
			zap.Strings("preferred", preferred),
		)
	}
}

// checkpoint stops the request between stages once the caller has gone away
func checkpoint(ctx context.Context, next Stage) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindInternal, Stage: next, Message: "request cancelled", Cause: err}
	}
	return nil
}

// asStageError keeps *Error values and wraps anything else (panics, pool errors)
func asStageError(err error, stage Stage) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Stage: stage, Message: "stage failed", Cause: err}
}
