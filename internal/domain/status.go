package domain

import "fmt"

type OrderStatus string

const (
	StatusQueued    OrderStatus = "queued"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
)

var statusSequence = []OrderStatus{StatusQueued, StatusPreparing, StatusReady, StatusDelivered}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range statusSequence {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

// Next returns the single forward transition from s. Delivered has none.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusSequence {
		if st == s && i+1 < len(statusSequence) {
			return statusSequence[i+1], true
		}
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool { return s == StatusDelivered }

func (s OrderStatus) String() string { return string(s) }
