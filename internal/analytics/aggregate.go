// Package analytics holds the pure, read-only projections the dashboards are
// built from. Every function here works on a snapshot passed in by the caller,
// never mutates it, and treats missing values as zero/empty so that partially
// populated rows never panic a render.
package analytics

import (
	"math"

	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// DealerGroup is one dealer's slice of a day-book, in first-seen order.
type DealerGroup struct {
	DealerName    string             `json:"dealer_name"`
	Lines         []domain.OrderLine `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
}

// GroupByDealer buckets lines by dealer name, preserving the order in which
// dealers first appear in the input. Not sorted on purpose: the console shows
// the day's entries in arrival order.
func GroupByDealer(lines []domain.OrderLine) []DealerGroup {
	groups := make([]DealerGroup, 0)
	index := make(map[string]int)

	for _, line := range lines {
		i, ok := index[line.DealerName]
		if !ok {
			i = len(groups)
			index[line.DealerName] = i
			groups = append(groups, DealerGroup{DealerName: line.DealerName})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].TotalQuantity += line.Quantity
	}

	return groups
}

// SumQuantity totals the quantity across lines, 0 for an empty snapshot.
func SumQuantity(lines []domain.OrderLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// PercentComplete converts an allocation against a goal into a whole-number
// percentage clamped to [0, 100]. A zero goal reads as 0, not a division
// error. The upper clamp stays even though allocations should never exceed
// the goal.
func PercentComplete(allocated, total int) int {
	if total <= 0 {
		return 0
	}

	pct := int(math.Round(100 * float64(allocated) / float64(total)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Trend direction of a month-over-month comparison.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// MonthOverMonth is the change between two monthly counts.
type MonthOverMonth struct {
	PercentageChange float64 `json:"percentage_change"`
	Trend            string  `json:"trend"`
}

// MonthOverMonthChange compares the current month's count against the
// previous one. With no previous data the change reads as 100% when anything
// happened this month and 0% otherwise.
func MonthOverMonthChange(currentCount, previousCount int) MonthOverMonth {
	var pct float64
	if previousCount == 0 {
		if currentCount > 0 {
			pct = 100
		}
	} else {
		pct = (float64(currentCount) - float64(previousCount)) / float64(previousCount) * 100
	}

	trend := TrendNeutral
	switch {
	case currentCount > previousCount:
		trend = TrendUp
	case currentCount < previousCount:
		trend = TrendDown
	}

	return MonthOverMonth{PercentageChange: pct, Trend: trend}
}

// PerUnitAllocation spreads a monthly monetary total over the month's
// production volume. Zero volume reads as a zero allocation.
func PerUnitAllocation(monetaryTotal decimal.Decimal, productionVolume int) decimal.Decimal {
	if productionVolume <= 0 {
		return decimal.Zero
	}
	return monetaryTotal.DivRound(decimal.NewFromInt(int64(productionVolume)), 4)
}
