package models

type Record struct {
	Key   []byte
	Value []byte
	Topic string
}

// SettleRequest is the fire-and-forget trigger published by the
// interactive deposit flow once the funding amount is confirmed.
type SettleRequest struct {
	TransactionID string `json:"transaction_id"`
}
