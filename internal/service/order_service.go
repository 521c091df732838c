// backend-go/internal/service/order_service.go
package service

import (
	"context"

	"github.com/alloyhq/console/backend-go/internal/analytics"
	"github.com/alloyhq/console/backend-go/internal/cache"
	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/alloyhq/console/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type OrderService struct {
	orders repository.OrderRepository
	master repository.MasterRepository
	cache  cache.DashboardCache
}

func NewOrderService(orders repository.OrderRepository, master repository.MasterRepository, dashCache cache.DashboardCache) *OrderService {
	if dashCache == nil {
		dashCache = cache.NewNoopDashboardCache()
	}
	return &OrderService{orders: orders, master: master, cache: dashCache}
}

// CreateOrder validates a new order request, classifies it into a queue, and
// persists it. A dispatch classification reserves stock in the same unit of
// work as the insert; pending and in-production classifications reserve
// nothing yet.
func (s *OrderService) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (*domain.OrderLine, error) {
	if err := domain.ValidateCreateOrder(in); err != nil {
		return nil, err
	}

	dealer, err := s.master.GetDealer(ctx, in.DealerID)
	if err != nil {
		return nil, err
	}
	product, err := s.master.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	stock, err := s.master.GetStock(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	plan, err := s.master.GetActivePlan(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	transport := in.TransportationType
	if transport == "" {
		transport = domain.TransportNone
	}

	line := &domain.OrderLine{
		DealerID:              dealer.ID,
		DealerName:            dealer.Name,
		ProductID:             product.ID,
		ProductName:           product.Name,
		ProductType:           product.ProductType,
		Quantity:              in.Quantity,
		Price:                 in.Price,
		IsClaim:               in.IsClaim,
		IsRepair:              in.IsRepair,
		TransportationType:    transport,
		TransportationCharges: in.TransportationCharges,
		EntryStatus:           domain.ClassifyEntry(stock.Available, in.Quantity, plan != nil),
	}

	switch line.EntryStatus {
	case domain.EntryDispatch:
		status := domain.DispatchAwaitingApproval
		line.DispatchStatus = &status
	case domain.EntryInProduction:
		planID := plan.ID
		line.ProductionPlanID = &planID
	}

	if err := s.orders.CreateOrderLine(ctx, line); err != nil {
		return nil, err
	}

	log.Info().
		Int64("line_id", line.ID).
		Str("dealer", line.DealerName).
		Str("entry_status", string(line.EntryStatus)).
		Int("quantity", line.Quantity).
		Msg("order line created")

	s.invalidateDashboards(ctx)
	return line, nil
}

// Promote moves a pending or in-production line into the dispatch queue once
// its stock source can cover the quantity. The precondition check and the
// decrement run atomically at the storage layer, so the call is safe to retry
// after an InsufficientStockError.
func (s *OrderService) Promote(ctx context.Context, id int64) (*domain.OrderLine, error) {
	line, err := s.orders.PromoteLine(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("line_id", id).Msg("order line promoted to dispatch")
	s.invalidateDashboards(ctx)
	return line, nil
}

// Send advances awaiting_approval -> sent_for_dispatch. Stock was already
// reserved, so this is a pure status move.
func (s *OrderService) Send(ctx context.Context, id int64) (*domain.OrderLine, error) {
	line, err := s.orders.TransitionDispatch(ctx, id,
		domain.DispatchAwaitingApproval, domain.DispatchSentForDispatch, false)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboards(ctx)
	return line, nil
}

// Confirm advances sent_for_dispatch -> approved and stamps processed_at.
// The line is read-only from here on.
func (s *OrderService) Confirm(ctx context.Context, id int64) (*domain.OrderLine, error) {
	line, err := s.orders.TransitionDispatch(ctx, id,
		domain.DispatchSentForDispatch, domain.DispatchApproved, true)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("line_id", id).Msg("order line approved for delivery")
	s.invalidateDashboards(ctx)
	return line, nil
}

// Delete removes a line at any stage before approved and restores whatever
// had been reserved for it.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := s.orders.DeleteLine(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("line_id", id).Msg("order line deleted")
	s.invalidateDashboards(ctx)
	return nil
}

func (s *OrderService) GetLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	return s.orders.GetOrderLine(ctx, id)
}

// ListDispatch returns one dispatch queue. The date filter is state
// dependent: created_at for awaiting_approval, processed_at for approved.
// sent_for_dispatch is served by DispatchBacklog instead.
func (s *OrderService) ListDispatch(ctx context.Context, status domain.DispatchStatus, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	return s.orders.ListDispatch(ctx, status, filter)
}

// DispatchBacklog returns every sent_for_dispatch line with no date filter
// and no pagination. The backlog never goes stale by design.
func (s *OrderService) DispatchBacklog(ctx context.Context) ([]domain.OrderLine, error) {
	return s.orders.ListDispatchBacklog(ctx)
}

func (s *OrderService) ListPending(ctx context.Context, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	return s.orders.ListEntries(ctx, domain.EntryPending, filter)
}

// ListInProduction lists in-production lines with their plan figures
// re-fetched at view time; the snapshot taken at classification is display
// history, not truth.
func (s *OrderService) ListInProduction(ctx context.Context, filter domain.ListFilter) ([]domain.InProductionLine, *domain.Pagination, error) {
	page, err := s.orders.ListEntries(ctx, domain.EntryInProduction, filter)
	if err != nil {
		return nil, nil, err
	}

	out := make([]domain.InProductionLine, 0, len(page.Data))
	for _, line := range page.Data {
		item := domain.InProductionLine{OrderLine: line}
		if line.ProductionPlanID != nil {
			plan, err := s.master.GetPlan(ctx, *line.ProductionPlanID)
			if err != nil {
				log.Warn().Err(err).Int64("line_id", line.ID).Msg("could not refresh plan figures")
			} else {
				item.Plan = domain.PlanSnapshot{
					TotalProductionQuantity: plan.TotalQuantity,
					TotalAllocatedToProduct: plan.AllocatedQuantity,
					InHouseStock:            plan.InHouseStock,
				}
				item.PercentComplete = analytics.PercentComplete(plan.AllocatedQuantity, plan.TotalQuantity)
			}
		}
		out = append(out, item)
	}

	return out, &page.Pagination, nil
}

// cache invalidation is best effort: a stale dashboard beats a failed mutation
func (s *OrderService) invalidateDashboards(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}
