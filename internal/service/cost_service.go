// backend-go/internal/service/cost_service.go
package service

import (
	"context"

	"github.com/alloyhq/console/backend-go/internal/analytics"
	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/alloyhq/console/backend-go/internal/repository"
)

type CostService struct {
	costs repository.CostRepository
}

func NewCostService(costs repository.CostRepository) *CostService {
	return &CostService{costs: costs}
}

func (s *CostService) ListCategories(ctx context.Context) ([]domain.CostCategory, error) {
	return s.costs.ListCategories(ctx)
}

func (s *CostService) ListOverheadValues(ctx context.Context, year, month int) ([]domain.MonthlyOverheadValue, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	return s.costs.ListOverheadValues(ctx, year, month)
}

// PerUnitAllocations spreads each cost bucket's monthly actual over that
// month's production volume. A month with no recorded volume allocates zero
// rather than failing.
func (s *CostService) PerUnitAllocations(ctx context.Context, year, month int) ([]domain.OverheadAllocation, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	values, err := s.costs.ListOverheadValues(ctx, year, month)
	if err != nil {
		return nil, err
	}

	volume, err := s.costs.ProductionVolume(ctx, year, month)
	if err != nil {
		return nil, err
	}

	allocations := make([]domain.OverheadAllocation, 0, len(values))
	for _, v := range values {
		allocations = append(allocations, domain.OverheadAllocation{
			CategoryID:   v.CategoryID,
			CategoryName: v.CategoryName,
			ActualValue:  v.ActualValue,
			Volume:       volume,
			PerUnit:      analytics.PerUnitAllocation(v.ActualValue, volume),
		})
	}

	return allocations, nil
}

func validateMonth(year, month int) error {
	if year < 2000 || year > 2200 {
		return &domain.ValidationError{Field: "year", Reason: "out of range"}
	}
	if month < 1 || month > 12 {
		return &domain.ValidationError{Field: "month", Reason: "must be 1-12"}
	}
	return nil
}
