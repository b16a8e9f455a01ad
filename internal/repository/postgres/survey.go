package postgres

import (
	"context"
	"fmt"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
)

type surveyRepository struct {
	BaseRepository
}

func NewSurveyRepository(base BaseRepository) repository.SurveyRepository {
	return &surveyRepository{base}
}

func (r *surveyRepository) CountByStatus(ctx context.Context, status model.SurveyStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM surveys WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count surveys: %w", err)
	}
	return count, nil
}
