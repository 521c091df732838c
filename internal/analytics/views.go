package analytics

import "github.com/alloyhq/console/backend-go/internal/domain"

// DayBook is one day's order entries grouped by dealer, the console's
// front-page table.
type DayBook struct {
	Date          string        `json:"date"`
	Dealers       []DealerGroup `json:"dealers"`
	TotalQuantity int           `json:"total_quantity"`
}

// PlanProgress is the progress-bar figure for one active production plan.
type PlanProgress struct {
	PlanID          int64 `json:"plan_id"`
	ProductID       int64 `json:"product_id"`
	TotalQuantity   int   `json:"total_quantity"`
	Allocated       int   `json:"allocated"`
	InHouseStock    int   `json:"in_house_stock"`
	PercentComplete int   `json:"percent_complete"`
}

// DashboardSummary is the monthly overview card set.
type DashboardSummary struct {
	Month         string                `json:"month"`
	CurrentCount  int                   `json:"current_count"`
	PreviousCount int                   `json:"previous_count"`
	Change        MonthOverMonth        `json:"change"`
	LowStock      []domain.LowStockItem `json:"low_stock"`
	Production    []PlanProgress        `json:"production"`
}

// BuildDayBook assembles a day-book from a snapshot of the day's lines.
func BuildDayBook(date string, lines []domain.OrderLine) *DayBook {
	return &DayBook{
		Date:          date,
		Dealers:       GroupByDealer(lines),
		TotalQuantity: SumQuantity(lines),
	}
}

// BuildPlanProgress converts active plans into progress-bar figures.
func BuildPlanProgress(plans []domain.ProductionPlan) []PlanProgress {
	out := make([]PlanProgress, 0, len(plans))
	for _, plan := range plans {
		out = append(out, PlanProgress{
			PlanID:          plan.ID,
			ProductID:       plan.ProductID,
			TotalQuantity:   plan.TotalQuantity,
			Allocated:       plan.AllocatedQuantity,
			InHouseStock:    plan.InHouseStock,
			PercentComplete: PercentComplete(plan.AllocatedQuantity, plan.TotalQuantity),
		})
	}
	return out
}
