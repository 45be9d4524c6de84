package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumedTransaction records a redeemed on-chain payment. The hash is the
// natural key; there is at most one row per hash system-wide, enforced by
// the storage layer. Rows are created once and never updated or deleted.
type ConsumedTransaction struct {
	Hash       string          `json:"transactionHash"`
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	ConsumedAt time.Time       `json:"consumedAt"`
}

// History kinds for the informational send/receive/payment sub-ledger.
const (
	KindSend    = "send"
	KindReceive = "receive"
	KindPayment = "payment"
)

// HistoryEntry is a user-facing display row. It carries no uniqueness
// beyond the hash the caller supplies; duplicate rows from retried saves are
// acceptable because history is not a balance source of truth.
type HistoryEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Hash      string          `json:"transactionHash"`
	Kind      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}
