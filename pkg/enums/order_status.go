package enums

import "fmt"

// OrderStatus tracks the order lifecycle. Transitions move strictly
// forward one step at a time; there is no path back from submitted.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusDraft:     0,
	OrderStatusReady:     1,
	OrderStatusSubmitted: 2,
	OrderStatusCompleted: 3,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Editable reports whether order contents may still change.
func (s OrderStatus) Editable() bool {
	return s == OrderStatusDraft || s == OrderStatusReady
}

// CanTransitionTo reports whether target is exactly one step forward.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[target]
	if !ok {
		return false
	}
	return to == from+1
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	candidate := OrderStatus(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid order status %q", value)
	}
	return candidate, nil
}
