package service

import (
	"fmt"
	"net/url"

	"ghost-kitchen/internal/domain"
)

const qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// NewReceipt builds the ticket QR. The payload is display only, nothing
// scans or verifies it.
func NewReceipt(o domain.Order) domain.Receipt {
	payload := fmt.Sprintf("ORIGEN-ORDER|TICKET:%s|TOTAL:%d|PAY:%s", o.TicketCode, o.Total, o.PaymentMethod)
	q := url.Values{}
	q.Set("size", "150x150")
	q.Set("data", payload)
	q.Set("bgcolor", "1a1a1d")
	q.Set("color", "ff9f1c")
	return domain.Receipt{
		TicketCode: o.TicketCode,
		QRPayload:  payload,
		QRImageURL: qrEndpoint + "?" + q.Encode(),
	}
}
