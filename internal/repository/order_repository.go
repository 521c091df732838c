// backend-go/internal/repository/order_repository.go
package repository

import (
	"context"
	"time"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

// OrderRepository persists order lines and owns every stock-affecting move.
// Each mutating call is atomic: the line move and its stock counterpart happen
// together or not at all.
type OrderRepository interface {
	// CreateOrderLine inserts the line into the queue named by its
	// EntryStatus and assigns its ID. When the line is classified dispatch,
	// the stock reservation (available down, reserved up) is part of the same
	// unit of work; losing the race returns InsufficientStockError and
	// nothing is written.
	CreateOrderLine(ctx context.Context, line *domain.OrderLine) error

	GetOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error)

	// PromoteLine moves a pending or in-production line into the dispatch
	// queue at awaiting_approval, decrementing the source stock counter
	// (available stock for pending, plan in-house stock for in-production)
	// under the same transaction. InsufficientStockError when the source
	// cannot cover the quantity; safe to retry.
	PromoteLine(ctx context.Context, id int64) (*domain.OrderLine, error)

	// TransitionDispatch advances a dispatch-stage line from -> to with a
	// compare-and-swap on the current status. setProcessedAt stamps the
	// processed time, which only the confirm step does. A status mismatch
	// returns InvalidStateError carrying the actual current state.
	TransitionDispatch(ctx context.Context, id int64, from, to domain.DispatchStatus, setProcessedAt bool) (*domain.OrderLine, error)

	// DeleteLine removes a line and compensates whatever had been reserved:
	// dispatch-stage deletes restore available stock, in-production deletes
	// hand back the plan allocation, pending deletes restore nothing.
	// Approved lines are terminal and return InvalidStateError.
	DeleteLine(ctx context.Context, id int64) error

	// ListDispatch returns dispatch-stage lines at one status. The date
	// filter applies to created_at for awaiting_approval and processed_at for
	// approved; callers must not pass dates for sent_for_dispatch.
	ListDispatch(ctx context.Context, status domain.DispatchStatus, filter domain.ListFilter) (*domain.OrderLinePage, error)

	// ListDispatchBacklog returns every sent_for_dispatch line, oldest first,
	// with no pagination and no date filter.
	ListDispatchBacklog(ctx context.Context) ([]domain.OrderLine, error)

	// ListEntries returns pending or in-production lines filtered by
	// created_at.
	ListEntries(ctx context.Context, status domain.EntryStatus, filter domain.ListFilter) (*domain.OrderLinePage, error)

	// ListCreatedBetween returns all lines, regardless of queue, created in
	// [from, to). Feeds the dealer day-book.
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error)

	// CountCreatedBetween counts lines created in [from, to).
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}
