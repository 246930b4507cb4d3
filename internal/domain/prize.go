package domain

type PrizeKind string

const (
	PrizeDiscount10   PrizeKind = "discount_10"
	PrizeDiscount50   PrizeKind = "discount_50"
	PrizeFreeDelivery PrizeKind = "free_delivery"
	PrizeFollowUs     PrizeKind = "follow_us"
	PrizeTryAgain     PrizeKind = "try_again"
)

// Prize is a darts outcome. DiscountPercent applies to the subtotal,
// FreeDelivery zeroes the delivery fee.
type Prize struct {
	Kind            PrizeKind `json:"kind"`
	Label           string    `json:"label"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	FreeDelivery    bool      `json:"free_delivery,omitempty"`
}

// Pending reports whether the prize should be kept for the next order.
func (p Prize) Pending() bool { return p.Kind != PrizeTryAgain }

// PrizeTable is drawn uniformly.
var PrizeTable = []Prize{
	{Kind: PrizeDiscount10, Label: "10% off your burger", DiscountPercent: 10},
	{Kind: PrizeDiscount50, Label: "50% off your burger", DiscountPercent: 50},
	{Kind: PrizeTryAgain, Label: "Keep trying"},
	{Kind: PrizeFreeDelivery, Label: "Free delivery", FreeDelivery: true},
	{Kind: PrizeFollowUs, Label: "Follow us and get a reward"},
}
