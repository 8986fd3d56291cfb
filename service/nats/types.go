package nats

import (
	"time"

	"github.com/google/uuid"
)

// ActionEvent describes an unsigned transaction handed to a client.
// This is published to the subject "actions.{action}" in JetStream.
// The event carries no signature: the client may never sign or submit it.
type ActionEvent struct {
	ID     string `json:"id"`
	Action string `json:"action"` // "tip" or "checkout"

	// Transfer details
	Account   string `json:"account"`   // Sender and fee payer
	Recipient string `json:"recipient"` // Destination wallet
	Lamports  uint64 `json:"lamports"`
	Blockhash string `json:"blockhash"`

	// Checkout only
	SKU      string `json:"sku,omitempty"`
	Quantity uint64 `json:"quantity,omitempty"`

	BalanceCheckSkipped bool      `json:"balance_check_skipped"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewActionEvent stamps a fresh event ID and creation time.
func NewActionEvent(action, account, recipient string, lamports uint64, blockhash string) *ActionEvent {
	return &ActionEvent{
		ID:        uuid.NewString(),
		Action:    action,
		Account:   account,
		Recipient: recipient,
		Lamports:  lamports,
		Blockhash: blockhash,
		CreatedAt: time.Now().UTC(),
	}
}

// Subject returns the JetStream subject the event is published to.
func (e *ActionEvent) Subject() string {
	return "actions." + e.Action
}
