package domain

import "time"

// CorrelationTag marks invoices created by this service so that paid
// payments can be traced back to the originating item.
const CorrelationTag = "offlineshop"

// ConfirmationWindow is how long after payment creation a confirmation code
// may still be retrieved.
const ConfirmationWindow = 15 * time.Minute

// PaymentExtra is the opaque correlation data attached at invoice creation.
type PaymentExtra struct {
	Tag  string `json:"tag"`
	Item string `json:"item"`
}

// Payment is a read model of the external ledger's payment record.
// This service never mutates payments.
type Payment struct {
	Hash      string       `json:"payment_hash"`
	Settled   bool         `json:"settled"`
	CreatedAt time.Time    `json:"created_at"`
	Extra     PaymentExtra `json:"extra"`
}

// FreshAt reports whether the payment is still inside the confirmation
// window at the given instant.
func (p *Payment) FreshAt(now time.Time) bool {
	return now.Sub(p.CreatedAt) <= ConfirmationWindow
}
