package domain

import "github.com/shopspring/decimal"

// CreateOrderInput is the validated payload for a new order line.
type CreateOrderInput struct {
	DealerID              int64
	ProductID             int64
	Quantity              int
	Price                 decimal.NullDecimal
	IsClaim               bool
	IsRepair              bool
	TransportationType    TransportationType
	TransportationCharges decimal.NullDecimal
}

// ValidateCreateOrder checks the order entry constraints. Claims carry no
// price; everything else needs a non-negative one. Transportation charges are
// required whenever a transportation type is chosen.
func ValidateCreateOrder(in CreateOrderInput) error {
	if in.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if in.DealerID <= 0 {
		return &ValidationError{Field: "dealer_id", Reason: "is required"}
	}
	if in.ProductID <= 0 {
		return &ValidationError{Field: "product_id", Reason: "is required"}
	}

	if in.IsClaim {
		if in.Price.Valid && !in.Price.Decimal.IsZero() {
			return &ValidationError{Field: "price", Reason: "must be zero or omitted for a claim"}
		}
	} else {
		if !in.Price.Valid {
			return &ValidationError{Field: "price", Reason: "is required"}
		}
		if in.Price.Decimal.IsNegative() {
			return &ValidationError{Field: "price", Reason: "must be non-negative"}
		}
	}

	transport := in.TransportationType
	if transport == "" {
		transport = TransportNone
	}
	if !transport.Valid() {
		return &ValidationError{Field: "transportation_type", Reason: "unknown value"}
	}
	if transport != TransportNone {
		if !in.TransportationCharges.Valid {
			return &ValidationError{Field: "transportation_charges", Reason: "required when transportation is set"}
		}
		if in.TransportationCharges.Decimal.IsNegative() {
			return &ValidationError{Field: "transportation_charges", Reason: "must be non-negative"}
		}
	}

	return nil
}

// ClassifyEntry decides which queue a new line belongs to. Rules are checked
// in order, first match wins:
//  1. enough stock on hand -> dispatch
//  2. an active production plan exists -> in_production
//  3. otherwise -> pending
func ClassifyEntry(available, quantity int, hasActivePlan bool) EntryStatus {
	switch {
	case available >= quantity:
		return EntryDispatch
	case hasActivePlan:
		return EntryInProduction
	default:
		return EntryPending
	}
}
