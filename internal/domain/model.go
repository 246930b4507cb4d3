package domain

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryBurgers Category = "burgers"
	CategoryFries   Category = "fries"
	CategoryDrinks  Category = "drinks"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBurgers, CategoryFries, CategoryDrinks:
		return true
	}
	return false
}

// MenuItem is an immutable catalog entry. Prices are whole COP.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"image_url"`
	Category    Category `json:"category"`
	Vegetarian  bool     `json:"vegetarian,omitempty"`
}

type CartItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}

func (ci CartItem) LineTotal() int64 { return ci.Price * int64(ci.Quantity) }

type PaymentMethod string

const (
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentMobileTransfer PaymentMethod = "mobile_transfer"
	PaymentCash           PaymentMethod = "cash"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch p := PaymentMethod(s); p {
	case PaymentDebitCard, PaymentMobileTransfer, PaymentCash:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, s)
}

type DeliveryType string

const (
	DeliveryHome   DeliveryType = "delivery"
	DeliveryPickup DeliveryType = "pickup"
)

func ParseDeliveryType(s string) (DeliveryType, error) {
	switch d := DeliveryType(s); d {
	case DeliveryHome, DeliveryPickup:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown delivery type %q", ErrInvalidInput, s)
}

// FidelityThreshold is the purchase count at which the next order is free.
const FidelityThreshold = 5

type Client struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TicketCode     string    `json:"ticket_code"`
	PurchaseCount  int       `json:"purchase_count"`
	HasPlayedDarts bool      `json:"has_played_darts"`
	ActivePrize    *Prize    `json:"active_prize,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}

func (c Client) FidelityOrder() bool { return c.PurchaseCount == FidelityThreshold }

// CompletePurchase cycles the loyalty counter and consumes any pending prize.
func (c *Client) CompletePurchase() {
	if c.PurchaseCount >= FidelityThreshold {
		c.PurchaseCount = 0
	} else {
		c.PurchaseCount++
	}
	c.ActivePrize = nil
}

type Order struct {
	ID            string        `json:"id"`
	TicketCode    string        `json:"ticket_code"`
	ClientName    string        `json:"client_name"`
	Items         []CartItem    `json:"items"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	DeliveryType  DeliveryType  `json:"delivery_type"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (o Order) Active() bool { return o.Status != StatusDelivered }

// OrdersAhead counts the other queued orders created strictly before o.
func OrdersAhead(o Order, all []Order) int {
	n := 0
	for _, other := range all {
		if other.ID != o.ID && other.Status == StatusQueued && other.CreatedAt.Before(o.CreatedAt) {
			n++
		}
	}
	return n
}
