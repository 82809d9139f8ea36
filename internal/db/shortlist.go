package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/shortlister/internal/types"
)

// -----------------------------------------------------------------------------
// Shortlist queries
// -----------------------------------------------------------------------------

const getJobQuery = `SELECT id::text, COALESCE(description, ''),
        COALESCE("skillsRequired", '{}'::text[]), COALESCE(perks, '{}'::text[])
 FROM "Internship" WHERE id::text = $1`

// One row per application; applicants with several projects appear once per project.
const getApplicantsQuery = `SELECT T1.id::text, COALESCE(T2.name, ''),
        COALESCE(T1."rawResumeText", ''), COALESCE(T1."resumeProjectText", ''),
        COALESCE(T1.skills, '{}'::text[]), COALESCE(T4."projectLevel"::text, '')
 FROM "Applicant" AS T1
 INNER JOIN "User" AS T2 ON T1."userId" = T2.id
 INNER JOIN "InternshipApplication" AS T3 ON T1.id = T3."applicantId"
 LEFT JOIN "Project" AS T4 ON T1.id = T4."applicantId"
 WHERE T3."internshipId"::text = $1`

const getVerifiedSkillsQuery = `SELECT "applicantId"::text, "skillName", COALESCE("masteryLevel", 0)::float8
 FROM "VerifiedSkill" WHERE "applicantId"::text = ANY($1)`

// GetJob returns the internship posting, or nil when it does not exist
func (db *DB) GetJob(ctx context.Context, jobID string) (*types.JobPosting, error) {
	var job types.JobPosting
	err := db.pool.QueryRow(ctx, getJobQuery, jobID).Scan(
		&job.ID, &job.Description, &job.RequiredSkills, &job.PreferredSkills,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship %s: %w", jobID, err)
	}
	return &job, nil
}

// GetCandidatesForJob returns the applicants of an internship in query order,
// each with their verified skills attached.
func (db *DB) GetCandidatesForJob(ctx context.Context, jobID string) ([]types.CandidateRow, error) {
	rows, err := db.pool.Query(ctx, getApplicantsQuery, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	var candidates []types.CandidateRow
	for rows.Next() {
		var c types.CandidateRow
		if err := rows.Scan(&c.ID, &c.Name, &c.ResumeText, &c.ProjectText, &c.ClaimedSkills, &c.StoredLevel); err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	verified, err := db.getVerifiedSkills(ctx, applicantIDs(candidates))
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].VerifiedSkills = verified[candidates[i].ID]
	}
	return candidates, nil
}

// getVerifiedSkills loads the verified skills of every applicant in one query
func (db *DB) getVerifiedSkills(ctx context.Context, ids []string) (map[string][]types.VerifiedSkill, error) {
	rows, err := db.pool.Query(ctx, getVerifiedSkillsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified skills: %w", err)
	}
	defer rows.Close()

	skills := make(map[string][]types.VerifiedSkill, len(ids))
	for rows.Next() {
		var (
			applicantID string
			s           types.VerifiedSkill
		)
		if err := rows.Scan(&applicantID, &s.Skill, &s.Mastery); err != nil {
			return nil, fmt.Errorf("failed to scan verified skill: %w", err)
		}
		skills[applicantID] = append(skills[applicantID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list verified skills: %w", err)
	}
	return skills, nil
}

// applicantIDs returns the distinct IDs in first-seen order
func applicantIDs(candidates []types.CandidateRow) []string {
	seen := make(map[string]struct{}, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	return ids
}
