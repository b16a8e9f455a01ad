package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
)

// Executor evaluates a filter spec against the submission corpus. Pure
// read: it never mutates anything and an empty result set is not an error.
type Executor interface {
	Execute(ctx context.Context, spec model.FilterSpec) ([]model.SearchResult, error)
}

type executor struct {
	submissions repository.SubmissionRepository
	now         func() time.Time
}

func NewExecutor(submissions repository.SubmissionRepository) Executor {
	return &executor{
		submissions: submissions,
		now:         time.Now,
	}
}

// Execute fetches keyword candidates from storage, then applies the full
// match predicate in process. Recomputed on every call.
func (e *executor) Execute(ctx context.Context, spec model.FilterSpec) ([]model.SearchResult, error) {
	terms := Tokenize(spec.Keywords)
	if len(terms) == 0 {
		return nil, nil
	}

	cutoff := spec.TimeRange.Cutoff(e.now())
	candidates, err := e.submissions.SearchCandidates(ctx, terms, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search candidates: %w", err)
	}

	var results []model.SearchResult
	for _, c := range candidates {
		if !Matches(spec, c, cutoff) {
			continue
		}
		results = append(results, model.SearchResult{
			SubmissionID: c.Submission.ID,
			SurveyID:     c.Submission.SurveyID,
			SurveyTitle:  c.SurveyTitle,
			RespondentID: c.Submission.RespondentID,
			SubmittedAt:  c.Submission.CreatedAt,
		})
	}
	return results, nil
}

// Tokenize splits a raw keyword string into lowercase search terms.
func Tokenize(keywords string) []string {
	var terms []string
	for _, f := range strings.Fields(keywords) {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// Matches is the authoritative predicate: every keyword term appears in the
// searchable text, trait and condition sets intersect the filter when the
// filter is non-empty, and the survey falls inside the resolved window.
// Submissions lacking trait or condition data are only rejected when the
// filter actually asks for those tags.
func Matches(spec model.FilterSpec, c *model.SubmissionCandidate, cutoff time.Time) bool {
	text := strings.ToLower(c.SurveyText)
	for _, term := range Tokenize(spec.Keywords) {
		if !strings.Contains(text, term) {
			return false
		}
	}

	if len(spec.GeneticTraits) > 0 && !intersects(spec.GeneticTraits, c.Submission.GeneticTraits) {
		return false
	}
	if len(spec.HealthConditions) > 0 && !intersects(spec.HealthConditions, c.Submission.HealthConditions) {
		return false
	}

	if !cutoff.IsZero() && c.SurveyCreated.Before(cutoff) {
		return false
	}

	return true
}

func intersects(want []string, have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(h)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}
