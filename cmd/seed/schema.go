package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dealers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		product_type INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS product_stock (
		product_id BIGINT PRIMARY KEY REFERENCES products(id),
		available INT NOT NULL DEFAULT 0 CHECK (available >= 0),
		reserved INT NOT NULL DEFAULT 0 CHECK (reserved >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS production_plans (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		total_quantity INT NOT NULL CHECK (total_quantity >= 0),
		allocated_quantity INT NOT NULL DEFAULT 0 CHECK (allocated_quantity >= 0),
		in_house_stock INT NOT NULL DEFAULT 0 CHECK (in_house_stock >= 0),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (allocated_quantity <= total_quantity)
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id BIGSERIAL PRIMARY KEY,
		dealer_id BIGINT NOT NULL REFERENCES dealers(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		price NUMERIC(14,2),
		is_claim BOOLEAN NOT NULL DEFAULT FALSE,
		is_repair BOOLEAN NOT NULL DEFAULT FALSE,
		transportation_type TEXT NOT NULL DEFAULT 'none',
		transportation_charges NUMERIC(14,2),
		entry_status TEXT NOT NULL,
		dispatch_status TEXT,
		production_plan_id BIGINT REFERENCES production_plans(id),
		allocated_quantity INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ,
		CHECK (entry_status IN ('dispatch', 'pending', 'in_production')),
		CHECK (dispatch_status IS NULL OR dispatch_status IN ('awaiting_approval', 'sent_for_dispatch', 'approved')),
		CHECK ((entry_status = 'dispatch') = (dispatch_status IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_entry_status ON order_lines (entry_status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_dispatch_status ON order_lines (dispatch_status) WHERE dispatch_status IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS cost_categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL CHECK (kind IN ('production', 'overhead', 'finance')),
		calculation_method TEXT NOT NULL CHECK (calculation_method IN ('per_unit', 'per_hour', 'monthly', 'yearly', 'fixed')),
		effective_from TIMESTAMPTZ,
		effective_to TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_overhead_values (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES cost_categories(id),
		year INT NOT NULL,
		month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
		actual_value NUMERIC(14,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (category_id, year, month)
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_production_volumes (
		year INT NOT NULL,
		month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
		volume INT NOT NULL DEFAULT 0,
		PRIMARY KEY (year, month)
	)`,
}

func runMigrate(c *cli.Context) error {
	db := dbFrom(c)

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}

	log.Println("schema created")
	return nil
}
