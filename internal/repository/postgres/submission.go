package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
)

type submissionRepository struct {
	BaseRepository
}

func NewSubmissionRepository(base BaseRepository) repository.SubmissionRepository {
	return &submissionRepository{base}
}

// SearchCandidates prefilters submissions whose survey text contains any of
// the keyword terms, optionally bounded below by since. The executor applies
// the full predicate (all-keywords, trait and condition intersections) on
// the returned rows.
func (r *submissionRepository) SearchCandidates(ctx context.Context, keywords []string, since time.Time) ([]*model.SubmissionCandidate, error) {
	var (
		conds []string
		args  []interface{}
	)

	for _, kw := range keywords {
		args = append(args, "%"+kw+"%")
		conds = append(conds, fmt.Sprintf(
			"(sv.title || ' ' || sv.description || ' ' || sm.response_text) ILIKE $%d", len(args)))
	}
	where := "(" + strings.Join(conds, " OR ") + ")"

	if !since.IsZero() {
		args = append(args, since)
		where += fmt.Sprintf(" AND sv.created_at >= $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT sm.id            AS "submission.id",
		       sm.survey_id     AS "submission.survey_id",
		       sm.respondent_id AS "submission.respondent_id",
		       sm.response_text AS "submission.response_text",
		       sm.genetic_traits    AS "submission.genetic_traits",
		       sm.health_conditions AS "submission.health_conditions",
		       sm.created_at    AS "submission.created_at",
		       sv.title         AS survey_title,
		       sv.title || ' ' || sv.description || ' ' || sm.response_text AS survey_text,
		       sv.created_at    AS survey_created
		FROM submissions sm
		JOIN surveys sv ON sv.id = sm.survey_id
		WHERE sv.status = 'active' AND %s
		ORDER BY sv.created_at DESC
	`, where)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var candidates []*model.SubmissionCandidate
	for rows.Next() {
		var c model.SubmissionCandidate
		var traits, conditions pq.StringArray
		err := rows.Scan(
			&c.Submission.ID,
			&c.Submission.SurveyID,
			&c.Submission.RespondentID,
			&c.Submission.ResponseText,
			&traits,
			&conditions,
			&c.Submission.CreatedAt,
			&c.SurveyTitle,
			&c.SurveyText,
			&c.SurveyCreated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		c.Submission.GeneticTraits = traits
		c.Submission.HealthConditions = conditions
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return candidates, nil
}
