// backend-go/internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

const selectLine = `
	SELECT
		l.id, l.dealer_id, d.name AS dealer_name,
		l.product_id, p.name AS product_name, p.product_type,
		l.quantity, l.price, l.is_claim, l.is_repair,
		l.transportation_type, l.transportation_charges,
		l.entry_status, l.dispatch_status, l.production_plan_id,
		l.allocated_quantity, l.created_at, l.processed_at
	FROM order_lines l
	JOIN dealers d ON d.id = l.dealer_id
	JOIN products p ON p.id = l.product_id
`

func (r *orderRepository) CreateOrderLine(ctx context.Context, line *domain.OrderLine) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if line.EntryStatus == domain.EntryDispatch {
			if err := reserveStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO order_lines (
				dealer_id, product_id, quantity, price, is_claim, is_repair,
				transportation_type, transportation_charges,
				entry_status, dispatch_status, production_plan_id, allocated_quantity,
				created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, NOW())
			RETURNING id, created_at
		`
		err := tx.QueryRowContext(ctx, query,
			line.DealerID,
			line.ProductID,
			line.Quantity,
			line.Price,
			line.IsClaim,
			line.IsRepair,
			line.TransportationType,
			line.TransportationCharges,
			line.EntryStatus,
			line.DispatchStatus,
			line.ProductionPlanID,
		).Scan(&line.ID, &line.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}

		return nil
	})

	return translateErr(err, "order line", 0)
}

// reserveStock moves quantity from available to reserved. The WHERE clause is
// the compare-and-swap that keeps two concurrent reservations from both
// succeeding past availability.
func reserveStock(ctx context.Context, tx *sqlx.Tx, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE product_stock
		SET available = available - $2, reserved = reserved + $2
		WHERE product_id = $1 AND available >= $2
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read reservation result: %w", err)
	}
	if rows == 0 {
		available := 0
		if err := tx.GetContext(ctx, &available,
			`SELECT available FROM product_stock WHERE product_id = $1`, productID); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to read stock: %w", err)
		}
		return &domain.InsufficientStockError{ProductID: productID, Required: quantity, Available: available}
	}

	return nil
}

func (r *orderRepository) GetOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	var line domain.OrderLine
	if err := r.db.GetContext(ctx, &line, selectLine+` WHERE l.id = $1`, id); err != nil {
		return nil, translateErr(err, "order line", id)
	}

	return &line, nil
}

func (r *orderRepository) PromoteLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		line, err := lockLine(ctx, tx, id)
		if err != nil {
			return err
		}

		switch line.EntryStatus {
		case domain.EntryPending:
			if err := reserveStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		case domain.EntryInProduction:
			if line.ProductionPlanID == nil {
				return &domain.ConflictError{Reason: "in-production line has no plan"}
			}
			if err := consumeInHouseStock(ctx, tx, *line.ProductionPlanID, line.ProductID, line.Quantity); err != nil {
				return err
			}
		default:
			current := domain.DispatchAwaitingApproval
			if line.DispatchStatus != nil {
				current = *line.DispatchStatus
			}
			return &domain.InvalidStateError{CurrentState: current, Attempted: "promote"}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE order_lines
			SET entry_status = $2, dispatch_status = $3, processed_at = NULL
			WHERE id = $1
		`, id, domain.EntryDispatch, domain.DispatchAwaitingApproval)
		if err != nil {
			return fmt.Errorf("failed to promote order line: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, translateErr(err, "order line", id)
	}

	return r.GetOrderLine(ctx, id)
}

// consumeInHouseStock draws finished goods off a production plan and parks
// them as reserved stock so a later dispatch-stage delete restores them the
// same way as any other line.
func consumeInHouseStock(ctx context.Context, tx *sqlx.Tx, planID, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE production_plans
		SET in_house_stock = in_house_stock - $2, updated_at = NOW()
		WHERE id = $1 AND in_house_stock >= $2
	`, planID, quantity)
	if err != nil {
		return fmt.Errorf("failed to consume in-house stock: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read plan update result: %w", err)
	}
	if rows == 0 {
		inHouse := 0
		if err := tx.GetContext(ctx, &inHouse,
			`SELECT in_house_stock FROM production_plans WHERE id = $1`, planID); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to read plan stock: %w", err)
		}
		return &domain.InsufficientStockError{ProductID: productID, Required: quantity, Available: inHouse}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_stock (product_id, available, reserved)
		VALUES ($1, 0, $2)
		ON CONFLICT (product_id) DO UPDATE SET reserved = product_stock.reserved + $2
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to park reserved stock: %w", err)
	}

	return nil
}

func lockLine(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.OrderLine, error) {
	var line domain.OrderLine
	query := `
		SELECT id, dealer_id, product_id, quantity, entry_status, dispatch_status,
		       production_plan_id, allocated_quantity, created_at, processed_at
		FROM order_lines WHERE id = $1 FOR UPDATE
	`
	if err := tx.GetContext(ctx, &line, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "order line", ID: id}
		}
		return nil, fmt.Errorf("failed to lock order line: %w", err)
	}

	return &line, nil
}

func (r *orderRepository) TransitionDispatch(ctx context.Context, id int64, from, to domain.DispatchStatus, setProcessedAt bool) (*domain.OrderLine, error) {
	var (
		res sql.Result
		err error
	)
	if setProcessedAt {
		res, err = r.db.ExecContext(ctx, `
			UPDATE order_lines SET dispatch_status = $3, processed_at = NOW()
			WHERE id = $1 AND entry_status = 'dispatch' AND dispatch_status = $2
		`, id, from, to)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE order_lines SET dispatch_status = $3
			WHERE id = $1 AND entry_status = 'dispatch' AND dispatch_status = $2
		`, id, from, to)
	}
	if err != nil {
		return nil, translateErr(fmt.Errorf("failed to transition order line: %w", err), "order line", id)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read transition result: %w", err)
	}
	if rows == 0 {
		// compare-and-swap lost: report what the line actually looks like now
		line, err := r.GetOrderLine(ctx, id)
		if err != nil {
			return nil, err
		}
		current := domain.DispatchStatus("")
		if line.DispatchStatus != nil {
			current = *line.DispatchStatus
		}
		return nil, &domain.InvalidStateError{CurrentState: current, Attempted: string(to)}
	}

	return r.GetOrderLine(ctx, id)
}

func (r *orderRepository) DeleteLine(ctx context.Context, id int64) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		line, err := lockLine(ctx, tx, id)
		if err != nil {
			return err
		}

		switch line.EntryStatus {
		case domain.EntryDispatch:
			if line.DispatchStatus == nil || !line.DispatchStatus.Deletable() {
				current := domain.DispatchApproved
				if line.DispatchStatus != nil {
					current = *line.DispatchStatus
				}
				return &domain.InvalidStateError{CurrentState: current, Attempted: "delete"}
			}
			_, err = tx.ExecContext(ctx, `
				UPDATE product_stock
				SET available = available + $2, reserved = GREATEST(reserved - $2, 0)
				WHERE product_id = $1
			`, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}

		case domain.EntryInProduction:
			if line.AllocatedQuantity > 0 && line.ProductionPlanID != nil {
				_, err = tx.ExecContext(ctx, `
					UPDATE production_plans
					SET allocated_quantity = GREATEST(allocated_quantity - $2, 0), updated_at = NOW()
					WHERE id = $1
				`, *line.ProductionPlanID, line.AllocatedQuantity)
				if err != nil {
					return fmt.Errorf("failed to restore plan allocation: %w", err)
				}
			}

		case domain.EntryPending:
			// nothing was reserved
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete order line: %w", err)
		}

		return nil
	})

	return translateErr(err, "order line", id)
}

func (r *orderRepository) ListDispatch(ctx context.Context, status domain.DispatchStatus, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	filter.Normalize()

	// awaiting_approval is a daily view over created_at, approved over
	// processed_at
	dateColumn := "l.created_at"
	if status == domain.DispatchApproved {
		dateColumn = "l.processed_at"
	}

	where := ` WHERE l.entry_status = 'dispatch' AND l.dispatch_status = $1
		AND ($2 = '' OR d.name ILIKE '%' || $2 || '%' OR p.name ILIKE '%' || $2 || '%')
		AND ($3::timestamptz IS NULL OR ` + dateColumn + ` >= $3)
		AND ($4::timestamptz IS NULL OR ` + dateColumn + ` <= $4)`

	total := 0
	countQuery := `SELECT COUNT(*) FROM order_lines l
		JOIN dealers d ON d.id = l.dealer_id
		JOIN products p ON p.id = l.product_id` + where
	if err := r.db.GetContext(ctx, &total, countQuery, status, filter.Search, filter.Dates.From, filter.Dates.To); err != nil {
		return nil, fmt.Errorf("failed to count dispatch lines: %w", err)
	}

	lines := []domain.OrderLine{}
	query := selectLine + where + ` ORDER BY l.created_at DESC LIMIT $5 OFFSET $6`
	if err := r.db.SelectContext(ctx, &lines, query,
		status, filter.Search, filter.Dates.From, filter.Dates.To, filter.Limit, filter.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list dispatch lines: %w", err)
	}

	return &domain.OrderLinePage{
		Data:       lines,
		Pagination: domain.Pagination{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (r *orderRepository) ListDispatchBacklog(ctx context.Context) ([]domain.OrderLine, error) {
	lines := []domain.OrderLine{}
	query := selectLine + ` WHERE l.entry_status = 'dispatch' AND l.dispatch_status = $1 ORDER BY l.created_at ASC`
	if err := r.db.SelectContext(ctx, &lines, query, domain.DispatchSentForDispatch); err != nil {
		return nil, fmt.Errorf("failed to list dispatch backlog: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) ListEntries(ctx context.Context, status domain.EntryStatus, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	filter.Normalize()

	where := ` WHERE l.entry_status = $1
		AND ($2 = '' OR d.name ILIKE '%' || $2 || '%' OR p.name ILIKE '%' || $2 || '%')
		AND ($3::timestamptz IS NULL OR l.created_at >= $3)
		AND ($4::timestamptz IS NULL OR l.created_at <= $4)`

	total := 0
	countQuery := `SELECT COUNT(*) FROM order_lines l
		JOIN dealers d ON d.id = l.dealer_id
		JOIN products p ON p.id = l.product_id` + where
	if err := r.db.GetContext(ctx, &total, countQuery, status, filter.Search, filter.Dates.From, filter.Dates.To); err != nil {
		return nil, fmt.Errorf("failed to count %s lines: %w", status, err)
	}

	lines := []domain.OrderLine{}
	query := selectLine + where + ` ORDER BY l.created_at DESC LIMIT $5 OFFSET $6`
	if err := r.db.SelectContext(ctx, &lines, query,
		status, filter.Search, filter.Dates.From, filter.Dates.To, filter.Limit, filter.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list %s lines: %w", status, err)
	}

	return &domain.OrderLinePage{
		Data:       lines,
		Pagination: domain.Pagination{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (r *orderRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error) {
	lines := []domain.OrderLine{}
	query := selectLine + ` WHERE l.created_at >= $1 AND l.created_at < $2 ORDER BY l.created_at ASC, l.id ASC`
	if err := r.db.SelectContext(ctx, &lines, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list lines by date: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	count := 0
	query := `SELECT COUNT(*) FROM order_lines WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.GetContext(ctx, &count, query, from, to); err != nil {
		return 0, fmt.Errorf("failed to count lines by date: %w", err)
	}

	return count, nil
}
