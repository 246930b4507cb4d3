package domain

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=debit_card mobile_transfer cash"`
	DeliveryType  string `json:"delivery_type" validate:"required,oneof=delivery pickup"`
}

type Receipt struct {
	TicketCode string `json:"ticket_code"`
	QRPayload  string `json:"qr_payload"`
	QRImageURL string `json:"qr_image_url"`
}

// OrderView is what a customer sees when tracking a ticket.
type OrderView struct {
	Order       Order `json:"order"`
	OrdersAhead int   `json:"orders_ahead"`
}

// BoardEntry is a kitchen row: an active order and the one action it offers.
type BoardEntry struct {
	Order      Order       `json:"order"`
	NextStatus OrderStatus `json:"next_status"`
}

type Stats struct {
	Queued    int `json:"queued"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
}

type ClientRank struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	TicketCode string `json:"ticket_code"`
	OrderCount int    `json:"order_count"`
	Tier       string `json:"tier"`
}
