// backend-go/internal/repository/postgres/master_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

type masterRepository struct {
	db *DB
}

func NewMasterRepository(db *DB) *masterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) GetDealer(ctx context.Context, id int64) (*domain.Dealer, error) {
	var dealer domain.Dealer
	query := `SELECT id, name, city, phone, created_at, updated_at FROM dealers WHERE id = $1`
	if err := r.db.GetContext(ctx, &dealer, query, id); err != nil {
		return nil, translateErr(err, "dealer", id)
	}

	return &dealer, nil
}

func (r *masterRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT id, name, product_type, created_at, updated_at FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, translateErr(err, "product", id)
	}

	return &product, nil
}

func (r *masterRepository) GetStock(ctx context.Context, productID int64) (*domain.ProductStock, error) {
	var stock domain.ProductStock
	query := `SELECT product_id, available, reserved FROM product_stock WHERE product_id = $1`
	err := r.db.GetContext(ctx, &stock, query, productID)
	if err == sql.ErrNoRows {
		// a product with no stock row simply has nothing on hand
		return &domain.ProductStock{ProductID: productID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	return &stock, nil
}

func (r *masterRepository) GetActivePlan(ctx context.Context, productID int64) (*domain.ProductionPlan, error) {
	var plan domain.ProductionPlan
	query := `
		SELECT id, product_id, total_quantity, allocated_quantity, in_house_stock, active, created_at, updated_at
		FROM production_plans
		WHERE product_id = $1 AND active
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &plan, query, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active plan: %w", err)
	}

	return &plan, nil
}

func (r *masterRepository) GetPlan(ctx context.Context, id int64) (*domain.ProductionPlan, error) {
	var plan domain.ProductionPlan
	query := `
		SELECT id, product_id, total_quantity, allocated_quantity, in_house_stock, active, created_at, updated_at
		FROM production_plans WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, translateErr(err, "production plan", id)
	}

	return &plan, nil
}

func (r *masterRepository) ListActivePlans(ctx context.Context) ([]domain.ProductionPlan, error) {
	plans := []domain.ProductionPlan{}
	query := `
		SELECT id, product_id, total_quantity, allocated_quantity, in_house_stock, active, created_at, updated_at
		FROM production_plans
		WHERE active
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	return plans, nil
}

func (r *masterRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	items := []domain.LowStockItem{}
	query := `
		SELECT s.product_id, p.name AS product_name, s.available, s.reserved
		FROM product_stock s
		JOIN products p ON p.id = s.product_id
		WHERE s.available <= $1
		ORDER BY s.available ASC, p.name ASC
	`
	if err := r.db.SelectContext(ctx, &items, query, threshold); err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}

	return items, nil
}
