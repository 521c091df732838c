// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dealer represents a distribution customer placing orders against stock
type Dealer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      string    `json:"city" db:"city"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a sellable item (alloy wheel, tyre, ppf, caps)
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ProductType int       `json:"product_type" db:"product_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductStock holds the availability counters for one product
type ProductStock struct {
	ProductID int64 `json:"product_id" db:"product_id"`
	Available int   `json:"available" db:"available"`
	Reserved  int   `json:"reserved" db:"reserved"`
}

// ProductionPlan represents a scheduled manufacturing run for a product
type ProductionPlan struct {
	ID                int64     `json:"id" db:"id"`
	ProductID         int64     `json:"product_id" db:"product_id"`
	TotalQuantity     int       `json:"total_quantity" db:"total_quantity"`
	AllocatedQuantity int       `json:"allocated_quantity" db:"allocated_quantity"`
	InHouseStock      int       `json:"in_house_stock" db:"in_house_stock"`
	Active            bool      `json:"active" db:"active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// OrderLine is one dealer request for a quantity of one product. A line lives
// in exactly one queue at a time: EntryStatus is the discriminator, and
// DispatchStatus is only set while the line sits in the dispatch queue.
type OrderLine struct {
	ID                    int64               `json:"id" db:"id"`
	DealerID              int64               `json:"dealer_id" db:"dealer_id"`
	DealerName            string              `json:"dealer_name" db:"dealer_name"`
	ProductID             int64               `json:"product_id" db:"product_id"`
	ProductName           string              `json:"product_name" db:"product_name"`
	ProductType           int                 `json:"product_type" db:"product_type"`
	Quantity              int                 `json:"quantity" db:"quantity"`
	Price                 decimal.NullDecimal `json:"price" db:"price"`
	IsClaim               bool                `json:"is_claim" db:"is_claim"`
	IsRepair              bool                `json:"is_repair" db:"is_repair"`
	TransportationType    TransportationType  `json:"transportation_type" db:"transportation_type"`
	TransportationCharges decimal.NullDecimal `json:"transportation_charges" db:"transportation_charges"`
	EntryStatus           EntryStatus         `json:"entry_status" db:"entry_status"`
	DispatchStatus        *DispatchStatus     `json:"dispatch_status,omitempty" db:"dispatch_status"`
	ProductionPlanID      *int64              `json:"production_plan_id,omitempty" db:"production_plan_id"`
	AllocatedQuantity     int                 `json:"allocated_quantity" db:"allocated_quantity"`
	CreatedAt             time.Time           `json:"created_at" db:"created_at"`
	ProcessedAt           *time.Time          `json:"processed_at,omitempty" db:"processed_at"`
}

// PlanSnapshot carries display-only production figures attached to an
// in-production line at view time. Authoritative values live on the plan.
type PlanSnapshot struct {
	TotalProductionQuantity int `json:"total_production_quantity"`
	TotalAllocatedToProduct int `json:"total_allocated_to_product"`
	InHouseStock            int `json:"in_house_stock"`
}

// InProductionLine is an in-production order line with its refreshed plan figures
type InProductionLine struct {
	OrderLine
	Plan            PlanSnapshot `json:"plan"`
	PercentComplete int          `json:"percent_complete"`
}

// CostCategory is a named recurring cost bucket used for P&L allocation
type CostCategory struct {
	ID                int64      `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Kind              string     `json:"kind" db:"kind"`
	CalculationMethod string     `json:"calculation_method" db:"calculation_method"`
	EffectiveFrom     *time.Time `json:"effective_from,omitempty" db:"effective_from"`
	EffectiveTo       *time.Time `json:"effective_to,omitempty" db:"effective_to"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// MonthlyOverheadValue binds a cost category to an actual value for one month
type MonthlyOverheadValue struct {
	ID           int64           `json:"id" db:"id"`
	CategoryID   int64           `json:"category_id" db:"category_id"`
	CategoryName string          `json:"category_name" db:"category_name"`
	Year         int             `json:"year" db:"year"`
	Month        int             `json:"month" db:"month"`
	ActualValue  decimal.Decimal `json:"actual_value" db:"actual_value"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// OverheadAllocation is the per-unit share of one cost bucket for a month
type OverheadAllocation struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ActualValue  decimal.Decimal `json:"actual_value"`
	Volume       int             `json:"volume"`
	PerUnit      decimal.Decimal `json:"per_unit"`
}

// LowStockItem is a product whose availability dropped under the watch threshold
type LowStockItem struct {
	ProductID   int64  `json:"product_id" db:"product_id"`
	ProductName string `json:"product_name" db:"product_name"`
	Available   int    `json:"available" db:"available"`
	Reserved    int    `json:"reserved" db:"reserved"`
}

// DateRange is an optional inclusive [From, To] filter on a time column
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether no bound is set
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the range; open bounds always match
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Pagination describes the page slice returned by list endpoints
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// OrderLinePage is the paginated list shape the console consumes
type OrderLinePage struct {
	Data       []OrderLine `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// ListFilter captures the query parameters shared by the paginated list endpoints
type ListFilter struct {
	Page   int
	Limit  int
	Search string
	Dates  DateRange
}

// Normalize clamps page/limit to sane values
func (f *ListFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
}

// Offset returns the row offset for the normalized page/limit
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
