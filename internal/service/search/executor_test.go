package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveypool/search-api/internal/model"
)

type stubSubmissionStore struct {
	candidates []*model.SubmissionCandidate
	err        error
}

func (s *stubSubmissionStore) SearchCandidates(context.Context, []string, time.Time) ([]*model.SubmissionCandidate, error) {
	return s.candidates, s.err
}

func candidate(text string, traits, conditions []string, created time.Time) *model.SubmissionCandidate {
	return &model.SubmissionCandidate{
		Submission: model.SubmissionRecord{
			ID:               uuid.New(),
			SurveyID:         uuid.New(),
			RespondentID:     uuid.New(),
			GeneticTraits:    pq.StringArray(traits),
			HealthConditions: pq.StringArray(conditions),
		},
		SurveyTitle:   "Survey",
		SurveyText:    text,
		SurveyCreated: created,
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"diabetes", "risk"}, Tokenize("  Diabetes   RISK "))
	assert.Nil(t, Tokenize("   "))
	assert.Nil(t, Tokenize(""))
}

func TestMatchesRequiresEveryKeyword(t *testing.T) {
	now := time.Now()
	c := candidate("a study of diabetes outcomes", nil, nil, now)

	spec := model.FilterSpec{Keywords: "diabetes outcomes"}
	assert.True(t, Matches(spec, c, time.Time{}))

	spec.Keywords = "diabetes cardiology"
	assert.False(t, Matches(spec, c, time.Time{}))
}

func TestMatchesKeywordsCaseInsensitive(t *testing.T) {
	c := candidate("Genetic Screening Panel", nil, nil, time.Now())

	spec := model.FilterSpec{Keywords: "genetic PANEL"}
	assert.True(t, Matches(spec, c, time.Time{}))
}

func TestMatchesEmptyTagFiltersAcceptUntaggedSubmissions(t *testing.T) {
	c := candidate("sleep quality survey", nil, nil, time.Now())

	spec := model.FilterSpec{Keywords: "sleep"}
	assert.True(t, Matches(spec, c, time.Time{}),
		"submission without tags must pass when no tag filter is set")
}

func TestMatchesTraitFilterIntersection(t *testing.T) {
	c := candidate("sleep quality survey", []string{"BRCA1"}, nil, time.Now())

	spec := model.FilterSpec{Keywords: "sleep", GeneticTraits: []string{"brca1", "apoe4"}}
	assert.True(t, Matches(spec, c, time.Time{}))

	spec.GeneticTraits = []string{"apoe4"}
	assert.False(t, Matches(spec, c, time.Time{}))

	untagged := candidate("sleep quality survey", nil, nil, time.Now())
	assert.False(t, Matches(spec, untagged, time.Time{}),
		"untagged submission must be rejected when a trait filter is set")
}

func TestMatchesConditionFilterIntersection(t *testing.T) {
	c := candidate("heart health study", nil, []string{"Hypertension"}, time.Now())

	spec := model.FilterSpec{Keywords: "heart", HealthConditions: []string{"hypertension"}}
	assert.True(t, Matches(spec, c, time.Time{}))

	spec.HealthConditions = []string{"asthma"}
	assert.False(t, Matches(spec, c, time.Time{}))
}

func TestMatchesTimeWindowBoundary(t *testing.T) {
	now := time.Now()
	cutoff := model.TimeRange7Days.Cutoff(now)

	recent := candidate("memory study", nil, nil, now.AddDate(0, 0, -1))
	old := candidate("memory study", nil, nil, now.AddDate(0, 0, -8))

	spec := model.FilterSpec{Keywords: "memory", TimeRange: model.TimeRange7Days}
	assert.True(t, Matches(spec, recent, cutoff))
	assert.False(t, Matches(spec, old, cutoff))
}

func TestExecuteFiltersCandidates(t *testing.T) {
	now := time.Now()
	match := candidate("diabetes outcomes", []string{"tcf7l2"}, nil, now.AddDate(0, 0, -2))
	wrongTrait := candidate("diabetes outcomes", []string{"brca1"}, nil, now.AddDate(0, 0, -2))
	tooOld := candidate("diabetes outcomes", []string{"tcf7l2"}, nil, now.AddDate(0, 0, -10))

	store := &stubSubmissionStore{candidates: []*model.SubmissionCandidate{match, wrongTrait, tooOld}}
	exec := &executor{submissions: store, now: func() time.Time { return now }}

	results, err := exec.Execute(context.Background(), model.FilterSpec{
		Keywords:      "diabetes",
		GeneticTraits: []string{"TCF7L2"},
		TimeRange:     model.TimeRange7Days,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, match.Submission.ID, results[0].SubmissionID)
	assert.Equal(t, match.Submission.SurveyID, results[0].SurveyID)
}

func TestExecuteEmptyResultIsNotAnError(t *testing.T) {
	store := &stubSubmissionStore{}
	exec := &executor{submissions: store, now: time.Now}

	results, err := exec.Execute(context.Background(), model.FilterSpec{Keywords: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTimeRangeCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, model.TimeRangeAll.Cutoff(now).IsZero())
	assert.Equal(t, now.AddDate(0, 0, -7), model.TimeRange7Days.Cutoff(now))
	assert.Equal(t, now.AddDate(0, 0, -30), model.TimeRange30Days.Cutoff(now))
	assert.Equal(t, now.AddDate(0, -6, 0), model.TimeRange6Months.Cutoff(now))
	assert.Equal(t, now.AddDate(0, -12, 0), model.TimeRange12Months.Cutoff(now))
}
