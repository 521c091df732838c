package domain

import "fmt"

// ValidationError means the request shape or values are wrong; the caller
// must correct the input, retrying unchanged will not help.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError means a referenced dealer, product or line does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError means a stock precondition race was lost. The call
// made no changes and is safe to retry after refreshing state.
type InsufficientStockError struct {
	ProductID int64
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: required %d, available %d",
		e.ProductID, e.Required, e.Available)
}

// InvalidStateError means an illegal dispatch transition was attempted,
// usually because the client view is stale. State is left unchanged.
type InvalidStateError struct {
	CurrentState DispatchStatus
	Attempted    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a line in state %q", e.Attempted, e.CurrentState)
}

// ConflictError means the storage layer detected a concurrent modification.
// Safe to retry once.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}
