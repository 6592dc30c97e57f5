package models

import "time"

// Transaction is a payment record inserted by the payment-intake process and
// consumed at most once by the redemption engine.
type Transaction struct {
	ID          string     `json:"id"`
	Reference   string     `json:"reference"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	IsUsed      bool       `json:"is_used"`
	UsedByPhone *string    `json:"used_by_phone,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ClaimedBy reports whether the transaction has been consumed by phone.
func (t *Transaction) ClaimedBy(phone string) bool {
	return t.IsUsed && t.UsedByPhone != nil && *t.UsedByPhone == phone
}
