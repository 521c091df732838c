package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/alloyhq/console/backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
)

func TestPerUnitAllocations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCostService(store)

	store.AddOverheadValue(domain.MonthlyOverheadValue{
		ID: 1, CategoryID: 1, CategoryName: "Electricity",
		Year: 2026, Month: 3,
		ActualValue: decimal.RequireFromString("18000"),
	})
	store.AddOverheadValue(domain.MonthlyOverheadValue{
		ID: 2, CategoryID: 2, CategoryName: "Factory Rent",
		Year: 2026, Month: 3,
		ActualValue: decimal.RequireFromString("90000"),
	})
	store.SetProductionVolume(2026, 3, 1200)

	allocations, err := svc.PerUnitAllocations(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("PerUnitAllocations: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if want := decimal.RequireFromString("15"); !allocations[0].PerUnit.Equal(want) {
		t.Errorf("electricity per unit = %s, want %s", allocations[0].PerUnit, want)
	}
	if want := decimal.RequireFromString("75"); !allocations[1].PerUnit.Equal(want) {
		t.Errorf("rent per unit = %s, want %s", allocations[1].PerUnit, want)
	}
}

func TestPerUnitAllocationsZeroVolume(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCostService(store)

	store.AddOverheadValue(domain.MonthlyOverheadValue{
		ID: 1, CategoryID: 1, CategoryName: "Electricity",
		Year: 2026, Month: 4,
		ActualValue: decimal.RequireFromString("18000"),
	})

	allocations, err := svc.PerUnitAllocations(ctx, 2026, 4)
	if err != nil {
		t.Fatalf("PerUnitAllocations: %v", err)
	}
	if len(allocations) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(allocations))
	}
	if !allocations[0].PerUnit.IsZero() {
		t.Errorf("per unit with no volume = %s, want 0", allocations[0].PerUnit)
	}
}

func TestCostMonthValidation(t *testing.T) {
	svc := NewCostService(memory.NewStore())

	cases := []struct{ year, month int }{
		{1999, 5},
		{2300, 5},
		{2026, 0},
		{2026, 13},
	}
	for _, tc := range cases {
		_, err := svc.ListOverheadValues(context.Background(), tc.year, tc.month)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ListOverheadValues(%d, %d): expected ValidationError, got %v", tc.year, tc.month, err)
		}
	}
}
