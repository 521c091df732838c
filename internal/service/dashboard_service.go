// backend-go/internal/service/dashboard_service.go
package service

import (
	"context"
	"time"

	"github.com/alloyhq/console/backend-go/internal/analytics"
	"github.com/alloyhq/console/backend-go/internal/cache"
	"github.com/alloyhq/console/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type DashboardService struct {
	orders            repository.OrderRepository
	master            repository.MasterRepository
	cache             cache.DashboardCache
	lowStockThreshold int
}

func NewDashboardService(orders repository.OrderRepository, master repository.MasterRepository, dashCache cache.DashboardCache, lowStockThreshold int) *DashboardService {
	if dashCache == nil {
		dashCache = cache.NewNoopDashboardCache()
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &DashboardService{
		orders:            orders,
		master:            master,
		cache:             dashCache,
		lowStockThreshold: lowStockThreshold,
	}
}

// DayBook returns the given day's order entries grouped by dealer in arrival
// order.
func (s *DashboardService) DayBook(ctx context.Context, day time.Time) (*analytics.DayBook, error) {
	date := day.Format("2006-01-02")

	if book, found, err := s.cache.GetDayBook(ctx, date); err != nil {
		log.Warn().Err(err).Msg("day-book cache read failed")
	} else if found {
		return book, nil
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	lines, err := s.orders.ListCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	book := analytics.BuildDayBook(date, lines)

	if err := s.cache.SetDayBook(ctx, date, book); err != nil {
		log.Warn().Err(err).Msg("day-book cache write failed")
	}

	return book, nil
}

// Summary returns the monthly overview: order counts with month-over-month
// change, the low stock watch list, and production progress bars.
func (s *DashboardService) Summary(ctx context.Context, now time.Time) (*analytics.DashboardSummary, error) {
	month := now.Format("2006-01")

	if summary, found, err := s.cache.GetSummary(ctx, month); err != nil {
		log.Warn().Err(err).Msg("summary cache read failed")
	} else if found {
		return summary, nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonth := monthStart.AddDate(0, -1, 0)

	currentCount, err := s.orders.CountCreatedBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	previousCount, err := s.orders.CountCreatedBetween(ctx, prevMonth, monthStart)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.master.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	plans, err := s.master.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	summary := &analytics.DashboardSummary{
		Month:         month,
		CurrentCount:  currentCount,
		PreviousCount: previousCount,
		Change:        analytics.MonthOverMonthChange(currentCount, previousCount),
		LowStock:      lowStock,
		Production:    analytics.BuildPlanProgress(plans),
	}

	if err := s.cache.SetSummary(ctx, month, summary); err != nil {
		log.Warn().Err(err).Msg("summary cache write failed")
	}

	return summary, nil
}
