// backend-go/internal/repository/master_repository.go
package repository

import (
	"context"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

// MasterRepository reads the master data the pipeline classifies against.
type MasterRepository interface {
	GetDealer(ctx context.Context, id int64) (*domain.Dealer, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// GetStock returns the availability counters for a product. A product
	// with no stock row reads as zero available, zero reserved.
	GetStock(ctx context.Context, productID int64) (*domain.ProductStock, error)

	// GetActivePlan returns the active production plan for a product, or
	// (nil, nil) when none is running.
	GetActivePlan(ctx context.Context, productID int64) (*domain.ProductionPlan, error)

	GetPlan(ctx context.Context, id int64) (*domain.ProductionPlan, error)

	ListActivePlans(ctx context.Context) ([]domain.ProductionPlan, error)

	ListLowStock(ctx context.Context, threshold int) ([]domain.LowStockItem, error)
}

// CostRepository reads the cost buckets used for per-unit P&L allocation.
type CostRepository interface {
	ListCategories(ctx context.Context) ([]domain.CostCategory, error)
	ListOverheadValues(ctx context.Context, year, month int) ([]domain.MonthlyOverheadValue, error)

	// ProductionVolume returns the number of units produced in a month,
	// 0 when nothing was recorded.
	ProductionVolume(ctx context.Context, year, month int) (int, error)
}
