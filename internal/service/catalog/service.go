package catalog

import (
	"github.com/surveypool/search-api/internal/model"
	apperrors "github.com/surveypool/search-api/pkg/errors"
)

// defaultPackages is the fixed, ordered catalog. Defined at deploy time,
// never persisted per account.
var defaultPackages = []model.PointPackage{
	{ID: "points_1000", PointsGranted: 1000, PriceCents: 1500, Label: "1,000 Points"},
	{ID: "points_5000", PointsGranted: 5000, PriceCents: 6000, Label: "5,000 Points"},
	{ID: "points_10000", PointsGranted: 10000, PriceCents: 10000, Label: "10,000 Points"},
	{ID: "points_50000", PointsGranted: 50000, PriceCents: 40000, Label: "50,000 Points"},
}

// Service serves the point package catalog. Pure reads, no external calls.
type Service struct {
	packages []model.PointPackage
	byID     map[string]model.PointPackage
}

func NewService() *Service {
	return NewServiceWithPackages(defaultPackages)
}

func NewServiceWithPackages(packages []model.PointPackage) *Service {
	byID := make(map[string]model.PointPackage, len(packages))
	for _, pkg := range packages {
		byID[pkg.ID] = pkg
	}
	return &Service{
		packages: packages,
		byID:     byID,
	}
}

// ListPackages returns the catalog in its fixed order.
func (s *Service) ListPackages() []model.PointPackage {
	out := make([]model.PointPackage, len(s.packages))
	copy(out, s.packages)
	return out
}

func (s *Service) GetPackage(id string) (*model.PointPackage, error) {
	pkg, ok := s.byID[id]
	if !ok {
		return nil, apperrors.UnknownPackage(id)
	}
	return &pkg, nil
}
