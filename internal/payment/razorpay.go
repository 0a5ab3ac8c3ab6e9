package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client wraps the Razorpay SDK for gateway order creation. It is constructed
// once at startup with validated credentials; nothing initializes it lazily
// inside request handling.
type Client struct {
	rz    *razorpay.Client
	keyID string
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		rz:    razorpay.NewClient(keyID, keySecret),
		keyID: keyID,
	}
}

// Order is the subset of the gateway's order object the kiosk client needs.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

// CreateOrder registers a payment order with the gateway. Amount is in the
// minor currency unit.
func (c *Client) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		noteData := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteData[k] = v
		}
		data["notes"] = noteData
	}

	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order := &Order{
		Amount:   amount,
		Currency: currency,
	}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		order.Currency = cur
	}

	return order, nil
}

// KeyID exposes the public key id for client-side checkout configuration.
func (c *Client) KeyID() string {
	return c.keyID
}
