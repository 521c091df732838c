package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

type dealerSeed struct {
	name, city, phone string
}

type productSeed struct {
	name        string
	productType int
	available   int
}

var dealerSeeds = []dealerSeed{
	{"Speedline Motors", "Pune", "+91 98220 11001"},
	{"Apex Wheel House", "Nashik", "+91 98220 11002"},
	{"Royal Alloys", "Mumbai", "+91 98220 11003"},
	{"Hi-Way Traders", "Nagpur", "+91 98220 11004"},
}

var productSeeds = []productSeed{
	{"AL-1565 Gunmetal 15in", 1, 120},
	{"AL-1765 Diamond Cut 17in", 1, 60},
	{"AL-1965 Matte Black 19in", 1, 0},
	{"TY-2055516 Touring", 2, 200},
	{"PPF-Roll Gloss 30m", 3, 25},
	{"CAP-Center Chrome", 4, 500},
}

var costCategorySeeds = []struct {
	name, kind, method string
}{
	{"Aluminium Ingots", "production", "per_unit"},
	{"Machine Power", "production", "per_hour"},
	{"Factory Rent", "overhead", "monthly"},
	{"Office Salaries", "overhead", "monthly"},
	{"Insurance", "overhead", "yearly"},
	{"Working Capital Interest", "finance", "monthly"},
}

func runMaster(c *cli.Context) error {
	db := dbFrom(c)
	ctx := c.Context

	// dealers and products are independent; load them in parallel
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for _, d := range dealerSeeds {
			_, err := db.ExecContext(gctx, `
				INSERT INTO dealers (name, city, phone)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO UPDATE SET city = EXCLUDED.city, phone = EXCLUDED.phone, updated_at = NOW()
			`, d.name, d.city, d.phone)
			if err != nil {
				return fmt.Errorf("failed to seed dealer %s: %w", d.name, err)
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, cat := range costCategorySeeds {
			_, err := db.ExecContext(gctx, `
				INSERT INTO cost_categories (name, kind, calculation_method)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO NOTHING
			`, cat.name, cat.kind, cat.method)
			if err != nil {
				return fmt.Errorf("failed to seed cost category %s: %w", cat.name, err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range productSeeds {
		if err := seedProduct(ctx, db, p); err != nil {
			return err
		}
	}

	log.Printf("seeded %d dealers, %d products, %d cost categories",
		len(dealerSeeds), len(productSeeds), len(costCategorySeeds))
	return nil
}

func seedProduct(ctx context.Context, db *sql.DB, p productSeed) error {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO products (name, product_type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET product_type = EXCLUDED.product_type, updated_at = NOW()
		RETURNING id
	`, p.name, p.productType).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to seed product %s: %w", p.name, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO product_stock (product_id, available, reserved)
		VALUES ($1, $2, 0)
		ON CONFLICT (product_id) DO UPDATE SET available = EXCLUDED.available
	`, id, p.available)
	if err != nil {
		return fmt.Errorf("failed to seed stock for %s: %w", p.name, err)
	}

	return nil
}

func runDemo(c *cli.Context) error {
	db := dbFrom(c)
	ctx := c.Context

	// an active run for the 19in wheel that has no stock on hand
	_, err := db.ExecContext(ctx, `
		INSERT INTO production_plans (product_id, total_quantity, allocated_quantity, in_house_stock, active)
		SELECT id, 300, 0, 40, TRUE FROM products WHERE name = 'AL-1965 Matte Black 19in'
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed production plan: %w", err)
	}

	now := time.Now()
	_, err = db.ExecContext(ctx, `
		INSERT INTO monthly_production_volumes (year, month, volume)
		VALUES ($1, $2, 1800)
		ON CONFLICT (year, month) DO UPDATE SET volume = EXCLUDED.volume
	`, now.Year(), int(now.Month()))
	if err != nil {
		return fmt.Errorf("failed to seed production volume: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO monthly_overhead_values (category_id, year, month, actual_value)
		SELECT id, $1, $2, CASE kind WHEN 'overhead' THEN 450000 WHEN 'finance' THEN 120000 ELSE 900000 END
		FROM cost_categories
		ON CONFLICT (category_id, year, month) DO NOTHING
	`, now.Year(), int(now.Month()))
	if err != nil {
		return fmt.Errorf("failed to seed overhead values: %w", err)
	}

	log.Println("seeded demo plans, volumes and overhead values")
	return nil
}
