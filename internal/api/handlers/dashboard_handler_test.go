package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alloyhq/console/backend-go/internal/analytics"
	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/alloyhq/console/backend-go/internal/repository/memory"
	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func newDashboardRouter(t *testing.T) (*memory.Store, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.AddDealer(domain.Dealer{ID: 1, Name: "Apex Motors"})
	store.AddProduct(domain.Product{ID: 10, Name: "AL-1965 Matte Black 19in", ProductType: 1})

	dashboardHandler := NewDashboardHandler(service.NewDashboardService(store, store, nil, 10))
	costHandler := NewCostHandler(service.NewCostService(store))

	router := gin.New()
	router.GET("/api/v1/dashboard/day-book", dashboardHandler.GetDayBook)
	router.GET("/api/v1/dashboard/summary", dashboardHandler.GetSummary)
	router.GET("/api/v1/costs/allocations", costHandler.GetAllocations)
	router.GET("/api/v1/costs/overheads", costHandler.GetOverheadValues)

	return store, router
}

func TestGetDayBookEndpoint(t *testing.T) {
	store, router := newDashboardRouter(t)

	day := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	line := &domain.OrderLine{
		DealerID: 1, DealerName: "Apex Motors",
		ProductID: 10, Quantity: 4,
		EntryStatus: domain.EntryPending,
		CreatedAt:   day,
	}
	if err := store.CreateOrderLine(context.Background(), line); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/dashboard/day-book?date=2026-03-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var book analytics.DayBook
	if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
		t.Fatal(err)
	}
	if book.Date != "2026-03-15" || book.TotalQuantity != 4 {
		t.Errorf("book = %+v", book)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/day-book?date=15-03-2026", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", w.Code)
	}
}

func TestGetSummaryEndpoint(t *testing.T) {
	_, router := newDashboardRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/dashboard/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var summary analytics.DashboardSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Month != time.Now().Format("2006-01") {
		t.Errorf("month = %q", summary.Month)
	}
}

func TestGetAllocationsEndpoint(t *testing.T) {
	store, router := newDashboardRouter(t)

	store.AddOverheadValue(domain.MonthlyOverheadValue{
		ID: 1, CategoryID: 1, CategoryName: "Electricity",
		Year: 2026, Month: 3,
		ActualValue: decimal.RequireFromString("18000"),
	})
	store.SetProductionVolume(2026, 3, 1200)

	w := doJSON(t, router, http.MethodGet, "/api/v1/costs/allocations?year=2026&month=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var allocations []domain.OverheadAllocation
	if err := json.Unmarshal(w.Body.Bytes(), &allocations); err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 1 {
		t.Fatalf("allocations = %d, want 1", len(allocations))
	}
	if want := decimal.RequireFromString("15"); !allocations[0].PerUnit.Equal(want) {
		t.Errorf("per unit = %s, want %s", allocations[0].PerUnit, want)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/costs/overheads?year=2026&month=13", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad month: status = %d, want 400", w.Code)
	}
}
