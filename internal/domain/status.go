package domain

import "strings"

// EntryStatus tags which queue an order line currently sits in.
type EntryStatus string

const (
	EntryDispatch     EntryStatus = "dispatch"
	EntryPending      EntryStatus = "pending"
	EntryInProduction EntryStatus = "in_production"
)

// Valid reports whether s is one of the known entry statuses.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryDispatch, EntryPending, EntryInProduction:
		return true
	}
	return false
}

// DispatchStatus is the stage of a line inside the dispatch queue.
type DispatchStatus string

const (
	DispatchAwaitingApproval DispatchStatus = "awaiting_approval"
	DispatchSentForDispatch  DispatchStatus = "sent_for_dispatch"
	DispatchApproved         DispatchStatus = "approved"
)

// Valid reports whether s is one of the known dispatch statuses.
func (s DispatchStatus) Valid() bool {
	switch s {
	case DispatchAwaitingApproval, DispatchSentForDispatch, DispatchApproved:
		return true
	}
	return false
}

// ParseDispatchStatus returns the status for a label (case-insensitive).
func ParseDispatchStatus(label string) (DispatchStatus, bool) {
	s := DispatchStatus(strings.ToLower(strings.TrimSpace(label)))
	return s, s.Valid()
}

// dispatchNext is the only legal forward edge out of each stage. Approved is
// terminal; there are no backward edges.
var dispatchNext = map[DispatchStatus]DispatchStatus{
	DispatchAwaitingApproval: DispatchSentForDispatch,
	DispatchSentForDispatch:  DispatchApproved,
}

// CanTransition reports whether moving from -> to is a legal forward step.
func CanTransition(from, to DispatchStatus) bool {
	next, ok := dispatchNext[from]
	return ok && next == to
}

// NextDispatchStatus returns the stage that follows from, if any.
func NextDispatchStatus(from DispatchStatus) (DispatchStatus, bool) {
	next, ok := dispatchNext[from]
	return next, ok
}

// Deletable reports whether a line at this stage may still be removed.
// Approved lines are read-only.
func (s DispatchStatus) Deletable() bool {
	return s == DispatchAwaitingApproval || s == DispatchSentForDispatch
}

var productTypeLabels = map[int]string{
	1: "Alloy",
	2: "Tyre",
	3: "PPF",
	4: "Caps",
}

var productTypeCodes = map[string]int{
	"alloy": 1,
	"tyre":  2,
	"ppf":   3,
	"caps":  4,
}

// ProductTypeLabel returns a human-readable label for a product type code.
func ProductTypeLabel(code int) string {
	if label, ok := productTypeLabels[code]; ok {
		return label
	}

	return "Unknown"
}

// ParseProductType returns the type code for a given label (case-insensitive).
func ParseProductType(label string) (int, bool) {
	code, ok := productTypeCodes[strings.ToLower(label)]

	return code, ok
}

// TransportationType says how a dispatched order leaves the factory.
type TransportationType string

const (
	TransportNone TransportationType = "none"
	TransportFull TransportationType = "transport"
	TransportBus  TransportationType = "bus"
)

// Valid reports whether t is one of the known transportation types.
func (t TransportationType) Valid() bool {
	switch t {
	case TransportNone, TransportFull, TransportBus:
		return true
	}
	return false
}

// Cost category kinds and calculation methods.
const (
	CostKindProduction = "production"
	CostKindOverhead   = "overhead"
	CostKindFinance    = "finance"
)

const (
	CalcPerUnit = "per_unit"
	CalcPerHour = "per_hour"
	CalcMonthly = "monthly"
	CalcYearly  = "yearly"
	CalcFixed   = "fixed"
)

// ValidCostKind reports whether kind is one of the known cost bucket kinds.
func ValidCostKind(kind string) bool {
	switch kind {
	case CostKindProduction, CostKindOverhead, CostKindFinance:
		return true
	}
	return false
}

// ValidCalculationMethod reports whether m is a known allocation method.
func ValidCalculationMethod(m string) bool {
	switch m {
	case CalcPerUnit, CalcPerHour, CalcMonthly, CalcYearly, CalcFixed:
		return true
	}
	return false
}
