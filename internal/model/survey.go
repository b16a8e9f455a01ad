package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SurveyStatus string

const (
	SurveyStatusActive SurveyStatus = "active"
	SurveyStatusClosed SurveyStatus = "closed"
)

// SurveyRecord is externally authored content the search executor reads but
// never mutates.
type SurveyRecord struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Status      SurveyStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// SubmissionRecord references exactly one survey by identifier.
type SubmissionRecord struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	SurveyID         uuid.UUID      `json:"survey_id" db:"survey_id"`
	RespondentID     uuid.UUID      `json:"respondent_id" db:"respondent_id"`
	ResponseText     string         `json:"response_text" db:"response_text"`
	GeneticTraits    pq.StringArray `json:"genetic_traits" db:"genetic_traits"`
	HealthConditions pq.StringArray `json:"health_conditions" db:"health_conditions"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// SubmissionCandidate pairs a submission with the survey fields the search
// predicate needs. Produced by the repository prefilter.
type SubmissionCandidate struct {
	Submission    SubmissionRecord `json:"submission"`
	SurveyTitle   string           `json:"survey_title" db:"survey_title"`
	SurveyText    string           `json:"survey_text" db:"survey_text"`
	SurveyCreated time.Time        `json:"survey_created" db:"survey_created"`
}
