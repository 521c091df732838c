// backend-go/internal/repository/postgres/cost_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

type costRepository struct {
	db *DB
}

func NewCostRepository(db *DB) *costRepository {
	return &costRepository{db: db}
}

func (r *costRepository) ListCategories(ctx context.Context) ([]domain.CostCategory, error) {
	categories := []domain.CostCategory{}
	query := `
		SELECT id, name, kind, calculation_method, effective_from, effective_to, created_at
		FROM cost_categories
		ORDER BY kind, name
	`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list cost categories: %w", err)
	}

	return categories, nil
}

func (r *costRepository) ListOverheadValues(ctx context.Context, year, month int) ([]domain.MonthlyOverheadValue, error) {
	values := []domain.MonthlyOverheadValue{}
	query := `
		SELECT v.id, v.category_id, c.name AS category_name, v.year, v.month, v.actual_value, v.created_at
		FROM monthly_overhead_values v
		JOIN cost_categories c ON c.id = v.category_id
		WHERE v.year = $1 AND v.month = $2
		ORDER BY c.kind, c.name
	`
	if err := r.db.SelectContext(ctx, &values, query, year, month); err != nil {
		return nil, fmt.Errorf("failed to list overhead values: %w", err)
	}

	return values, nil
}

func (r *costRepository) ProductionVolume(ctx context.Context, year, month int) (int, error) {
	volume := 0
	query := `SELECT volume FROM monthly_production_volumes WHERE year = $1 AND month = $2`
	err := r.db.GetContext(ctx, &volume, query, year, month)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get production volume: %w", err)
	}

	return volume, nil
}
