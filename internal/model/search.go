package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TimeRange restricts a search to surveys created inside a trailing window.
type TimeRange string

const (
	TimeRangeAll      TimeRange = "all"
	TimeRange7Days    TimeRange = "7days"
	TimeRange30Days   TimeRange = "30days"
	TimeRange6Months  TimeRange = "6months"
	TimeRange12Months TimeRange = "12months"
)

// Valid reports whether t is one of the defined windows.
func (t TimeRange) Valid() bool {
	switch t {
	case TimeRangeAll, TimeRange7Days, TimeRange30Days, TimeRange6Months, TimeRange12Months:
		return true
	}
	return false
}

// Cutoff resolves the window to an inclusive lower bound relative to now.
// The zero time means no lower bound.
func (t TimeRange) Cutoff(now time.Time) time.Time {
	switch t {
	case TimeRange7Days:
		return now.AddDate(0, 0, -7)
	case TimeRange30Days:
		return now.AddDate(0, 0, -30)
	case TimeRange6Months:
		return now.AddDate(0, -6, 0)
	case TimeRange12Months:
		return now.AddDate(0, -12, 0)
	default:
		return time.Time{}
	}
}

// FilterSpec is the combination of keywords, trait tags, condition tags and
// time window defining a search.
type FilterSpec struct {
	Keywords         string    `json:"keywords"`
	GeneticTraits    []string  `json:"genetic_traits"`
	HealthConditions []string  `json:"health_conditions"`
	TimeRange        TimeRange `json:"time_range"`
}

// SearchTransaction is the persisted record of one executed, point-charged
// search. Created atomically with the debit and immutable afterward; the
// contact workflow correlates results back to it.
type SearchTransaction struct {
	Base
	BusinessID       uuid.UUID      `json:"business_id" db:"business_id"`
	Keywords         string         `json:"keywords" db:"keywords"`
	GeneticTraits    pq.StringArray `json:"genetic_traits" db:"genetic_traits"`
	HealthConditions pq.StringArray `json:"health_conditions" db:"health_conditions"`
	TimeRange        TimeRange      `json:"time_range" db:"time_range"`
	ResultCount      int            `json:"result_count" db:"result_count"`
}

// SearchResult is one submission surfaced by a search, paired with the
// survey it belongs to.
type SearchResult struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	SurveyID     uuid.UUID `json:"survey_id"`
	SurveyTitle  string    `json:"survey_title"`
	RespondentID uuid.UUID `json:"respondent_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
