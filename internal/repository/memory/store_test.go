package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

func seedMasters(t *testing.T, s *Store) {
	t.Helper()
	s.AddDealer(domain.Dealer{ID: 1, Name: "Apex Motors", City: "Pune"})
	s.AddDealer(domain.Dealer{ID: 2, Name: "Zenith Wheels", City: "Nashik"})
	s.AddProduct(domain.Product{ID: 10, Name: "AL-1965 Matte Black 19in", ProductType: 1})
	s.AddProduct(domain.Product{ID: 11, Name: "TY-205 All Season", ProductType: 2})
}

func newLine(dealerID, productID int64, qty int, status domain.EntryStatus) *domain.OrderLine {
	line := &domain.OrderLine{
		DealerID:    dealerID,
		ProductID:   productID,
		Quantity:    qty,
		EntryStatus: status,
	}
	if status == domain.EntryDispatch {
		s := domain.DispatchAwaitingApproval
		line.DispatchStatus = &s
	}
	return line
}

func mustCreate(t *testing.T, s *Store, line *domain.OrderLine) *domain.OrderLine {
	t.Helper()
	if err := s.CreateOrderLine(context.Background(), line); err != nil {
		t.Fatalf("CreateOrderLine: %v", err)
	}
	return line
}

func stockOf(t *testing.T, s *Store, productID int64) *domain.ProductStock {
	t.Helper()
	stock, err := s.GetStock(context.Background(), productID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	return stock
}

// Entry into dispatch reserves stock atomically with the insert.
func TestCreateDispatchLineReservesStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 15, 0)

	line := mustCreate(t, s, newLine(1, 10, 4, domain.EntryDispatch))
	if line.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 11 || stock.Reserved != 4 {
		t.Fatalf("stock after create = %d/%d, want 11/4", stock.Available, stock.Reserved)
	}

	got, err := s.GetOrderLine(ctx, line.ID)
	if err != nil {
		t.Fatalf("GetOrderLine: %v", err)
	}
	if got.DispatchStatus == nil || *got.DispatchStatus != domain.DispatchAwaitingApproval {
		t.Fatalf("new dispatch line must start awaiting approval, got %v", got.DispatchStatus)
	}
}

func TestCreateDispatchLineInsufficientStock(t *testing.T) {
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 3, 0)

	err := s.CreateOrderLine(context.Background(), newLine(1, 10, 4, domain.EntryDispatch))
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Required != 4 || stockErr.Available != 3 {
		t.Errorf("error carries %d/%d, want required 4, available 3", stockErr.Required, stockErr.Available)
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 3 || stock.Reserved != 0 {
		t.Fatalf("failed create must not move stock, got %d/%d", stock.Available, stock.Reserved)
	}
}

func TestCreatePendingLineLeavesStockAlone(t *testing.T) {
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 2, 0)

	mustCreate(t, s, newLine(1, 10, 8, domain.EntryPending))

	stock := stockOf(t, s, 10)
	if stock.Available != 2 || stock.Reserved != 0 {
		t.Fatalf("pending create must not touch stock, got %d/%d", stock.Available, stock.Reserved)
	}
}

// A pending line promotes into the dispatch queue once stock arrives.
func TestPromotePendingLine(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 0, 0)

	line := mustCreate(t, s, newLine(1, 10, 5, domain.EntryPending))

	if _, err := s.PromoteLine(ctx, line.ID); err == nil {
		t.Fatal("promote with no stock must fail")
	}

	s.SetStock(10, 6, 0)
	promoted, err := s.PromoteLine(ctx, line.ID)
	if err != nil {
		t.Fatalf("PromoteLine: %v", err)
	}
	if promoted.EntryStatus != domain.EntryDispatch {
		t.Errorf("entry status = %s, want dispatch", promoted.EntryStatus)
	}
	if promoted.DispatchStatus == nil || *promoted.DispatchStatus != domain.DispatchAwaitingApproval {
		t.Errorf("dispatch status = %v, want awaiting_approval", promoted.DispatchStatus)
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 1 || stock.Reserved != 5 {
		t.Fatalf("stock after promote = %d/%d, want 1/5", stock.Available, stock.Reserved)
	}
}

func TestPromoteInProductionLineDrawsFromPlan(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.AddPlan(domain.ProductionPlan{ID: 7, ProductID: 10, TotalQuantity: 100, InHouseStock: 8, Active: true})

	line := newLine(1, 10, 5, domain.EntryInProduction)
	planID := int64(7)
	line.ProductionPlanID = &planID
	mustCreate(t, s, line)

	promoted, err := s.PromoteLine(ctx, line.ID)
	if err != nil {
		t.Fatalf("PromoteLine: %v", err)
	}
	if promoted.EntryStatus != domain.EntryDispatch {
		t.Errorf("entry status = %s, want dispatch", promoted.EntryStatus)
	}

	plan, err := s.GetPlan(ctx, 7)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if plan.InHouseStock != 3 {
		t.Errorf("plan in-house stock = %d, want 3", plan.InHouseStock)
	}
	stock := stockOf(t, s, 10)
	if stock.Reserved != 5 {
		t.Errorf("reserved = %d, want 5", stock.Reserved)
	}
}

func TestPromoteDispatchLineRejected(t *testing.T) {
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 15, 0)

	line := mustCreate(t, s, newLine(1, 10, 4, domain.EntryDispatch))

	_, err := s.PromoteLine(context.Background(), line.ID)
	var stateErr *domain.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

// Scenario: two concurrent promotes fight over 15 units, 10 each. Exactly one
// may win.
func TestConcurrentPromotesAreAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 15, 0)

	a := mustCreate(t, s, newLine(1, 10, 10, domain.EntryPending))
	b := mustCreate(t, s, newLine(2, 10, 10, domain.EntryPending))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = s.PromoteLine(ctx, id)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("loser must fail with InsufficientStockError, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one promote must win, got %d", succeeded)
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 5 || stock.Reserved != 10 {
		t.Fatalf("stock after race = %d/%d, want 5/10", stock.Available, stock.Reserved)
	}
}

// Dispatch lifecycle: awaiting_approval -> sent_for_dispatch -> approved, no
// skipping, no going back.
func TestDispatchTransitionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 20, 0)

	line := mustCreate(t, s, newLine(1, 10, 4, domain.EntryDispatch))

	if _, err := s.TransitionDispatch(ctx, line.ID, domain.DispatchSentForDispatch, domain.DispatchApproved, true); err == nil {
		t.Fatal("skipping a stage must fail")
	}

	sent, err := s.TransitionDispatch(ctx, line.ID, domain.DispatchAwaitingApproval, domain.DispatchSentForDispatch, false)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.ProcessedAt != nil {
		t.Error("sending must not stamp processed_at")
	}

	approved, err := s.TransitionDispatch(ctx, line.ID, domain.DispatchSentForDispatch, domain.DispatchApproved, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ProcessedAt == nil {
		t.Error("approval must stamp processed_at")
	}

	_, err = s.TransitionDispatch(ctx, line.ID, domain.DispatchSentForDispatch, domain.DispatchApproved, true)
	var stateErr *domain.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("repeat approval must fail with InvalidStateError, got %v", err)
	}
	if stateErr.CurrentState != domain.DispatchApproved {
		t.Errorf("error reports current state %q, want approved", stateErr.CurrentState)
	}
}

// Deleting before approval restores reserved stock; approved lines are frozen.
func TestDeleteDispatchLineRestoresStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 15, 0)

	line := mustCreate(t, s, newLine(1, 10, 4, domain.EntryDispatch))

	if err := s.DeleteLine(ctx, line.ID); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 15 || stock.Reserved != 0 {
		t.Fatalf("stock after delete = %d/%d, want 15/0", stock.Available, stock.Reserved)
	}
	if _, err := s.GetOrderLine(ctx, line.ID); err == nil {
		t.Fatal("deleted line must be gone")
	}
}

func TestDeleteApprovedLineRejected(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 15, 0)

	line := mustCreate(t, s, newLine(1, 10, 4, domain.EntryDispatch))
	if _, err := s.TransitionDispatch(ctx, line.ID, domain.DispatchAwaitingApproval, domain.DispatchSentForDispatch, false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.TransitionDispatch(ctx, line.ID, domain.DispatchSentForDispatch, domain.DispatchApproved, true); err != nil {
		t.Fatal(err)
	}

	err := s.DeleteLine(ctx, line.ID)
	var stateErr *domain.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}

	stock := stockOf(t, s, 10)
	if stock.Available != 11 || stock.Reserved != 4 {
		t.Fatalf("stock must be untouched, got %d/%d", stock.Available, stock.Reserved)
	}
}

func TestDeleteInProductionLineReturnsAllocation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.AddPlan(domain.ProductionPlan{ID: 7, ProductID: 10, TotalQuantity: 100, Active: true})

	line := newLine(1, 10, 6, domain.EntryInProduction)
	planID := int64(7)
	line.ProductionPlanID = &planID
	mustCreate(t, s, line)

	s.SetLineAllocation(line.ID, 6)
	plan, _ := s.GetPlan(ctx, 7)
	if plan.AllocatedQuantity != 6 {
		t.Fatalf("allocation fixture = %d, want 6", plan.AllocatedQuantity)
	}

	if err := s.DeleteLine(ctx, line.ID); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}

	plan, _ = s.GetPlan(ctx, 7)
	if plan.AllocatedQuantity != 0 {
		t.Errorf("plan allocation after delete = %d, want 0", plan.AllocatedQuantity)
	}
}

// The approved view filters on processing date, the awaiting view on entry
// date. The sent_for_dispatch backlog ignores filters entirely.
func TestListDispatchDateColumnDependsOnStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 100, 0)

	old := mustCreate(t, s, func() *domain.OrderLine {
		l := newLine(1, 10, 2, domain.EntryDispatch)
		l.CreatedAt = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
		return l
	}())
	if _, err := s.TransitionDispatch(ctx, old.ID, domain.DispatchAwaitingApproval, domain.DispatchSentForDispatch, false); err != nil {
		t.Fatal(err)
	}
	// approval stamps processed_at with now, far from the created_at above
	if _, err := s.TransitionDispatch(ctx, old.ID, domain.DispatchSentForDispatch, domain.DispatchApproved, true); err != nil {
		t.Fatal(err)
	}

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	filter := domain.ListFilter{Dates: domain.DateRange{From: &from, To: &to}}

	page, err := s.ListDispatch(ctx, domain.DispatchApproved, filter)
	if err != nil {
		t.Fatalf("ListDispatch: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("approved filter on processed_at must match, got %d lines", len(page.Data))
	}

	// the same window on the awaiting view uses created_at, which is in January
	line2 := newLine(2, 10, 2, domain.EntryDispatch)
	line2.CreatedAt = time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	mustCreate(t, s, line2)

	page, err = s.ListDispatch(ctx, domain.DispatchAwaitingApproval, filter)
	if err != nil {
		t.Fatalf("ListDispatch: %v", err)
	}
	if len(page.Data) != 0 {
		t.Fatalf("awaiting filter on created_at must exclude the January line, got %d", len(page.Data))
	}
}

func TestListDispatchSearchAndPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 1000, 0)

	for i := 0; i < 25; i++ {
		l := newLine(1, 10, 1, domain.EntryDispatch)
		l.DealerName = "Apex Motors"
		l.ProductName = "AL-1965 Matte Black 19in"
		l.CreatedAt = time.Date(2026, 3, 1, 0, 0, i, 0, time.UTC)
		mustCreate(t, s, l)
	}

	page, err := s.ListDispatch(ctx, domain.DispatchAwaitingApproval, domain.ListFilter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("ListDispatch: %v", err)
	}
	if page.Pagination.Total != 25 || page.Pagination.Page != 2 || len(page.Data) != 10 {
		t.Fatalf("page 2 = %d lines of total %d, want 10 of 25", len(page.Data), page.Pagination.Total)
	}

	page, err = s.ListDispatch(ctx, domain.DispatchAwaitingApproval, domain.ListFilter{Search: "apex"})
	if err != nil {
		t.Fatalf("ListDispatch: %v", err)
	}
	if page.Pagination.Total != 25 {
		t.Errorf("case-insensitive dealer search matched %d, want 25", page.Pagination.Total)
	}

	page, err = s.ListDispatch(ctx, domain.DispatchAwaitingApproval, domain.ListFilter{Search: "no such dealer"})
	if err != nil {
		t.Fatalf("ListDispatch: %v", err)
	}
	if page.Pagination.Total != 0 {
		t.Errorf("miss search matched %d, want 0", page.Pagination.Total)
	}
}

func TestListDispatchBacklogOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 100, 0)

	var ids []int64
	for i := 3; i > 0; i-- {
		l := newLine(1, 10, 1, domain.EntryDispatch)
		l.CreatedAt = time.Date(2026, 3, i, 0, 0, 0, 0, time.UTC)
		mustCreate(t, s, l)
		if _, err := s.TransitionDispatch(ctx, l.ID, domain.DispatchAwaitingApproval, domain.DispatchSentForDispatch, false); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, l.ID)
	}

	backlog, err := s.ListDispatchBacklog(ctx)
	if err != nil {
		t.Fatalf("ListDispatchBacklog: %v", err)
	}
	if len(backlog) != 3 {
		t.Fatalf("backlog has %d lines, want 3", len(backlog))
	}
	for i := 1; i < len(backlog); i++ {
		if backlog[i].CreatedAt.Before(backlog[i-1].CreatedAt) {
			t.Fatal("backlog must be oldest first")
		}
	}
}

func TestCountCreatedBetweenHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)

	mk := func(ts time.Time) {
		l := newLine(1, 10, 1, domain.EntryPending)
		l.CreatedAt = ts
		mustCreate(t, s, l)
	}
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mk(monthStart)
	mk(monthStart.Add(36 * time.Hour))
	mk(nextMonth) // boundary row belongs to the next month

	count, err := s.CountCreatedBetween(ctx, monthStart, nextMonth)
	if err != nil {
		t.Fatalf("CountCreatedBetween: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestListLowStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedMasters(t, s)
	s.SetStock(10, 3, 1)
	s.SetStock(11, 50, 0)

	items, err := s.ListLowStock(ctx, 10)
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 low-stock item, got %d", len(items))
	}
	if items[0].ProductID != 10 || items[0].ProductName != "AL-1965 Matte Black 19in" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestGetActivePlanPicksLatest(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.AddPlan(domain.ProductionPlan{ID: 1, ProductID: 10, Active: true, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	s.AddPlan(domain.ProductionPlan{ID: 2, ProductID: 10, Active: true, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)})
	s.AddPlan(domain.ProductionPlan{ID: 3, ProductID: 10, Active: false, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})

	plan, err := s.GetActivePlan(ctx, 10)
	if err != nil {
		t.Fatalf("GetActivePlan: %v", err)
	}
	if plan == nil || plan.ID != 2 {
		t.Fatalf("expected plan 2, got %+v", plan)
	}

	plan, err = s.GetActivePlan(ctx, 11)
	if err != nil {
		t.Fatalf("GetActivePlan: %v", err)
	}
	if plan != nil {
		t.Fatalf("no plan product must yield nil, got %+v", plan)
	}
}
