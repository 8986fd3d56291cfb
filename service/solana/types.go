package solana

import (
	"github.com/gagliardetto/solana-go"
)

// Transfer is a native SOL transfer decoded from a transaction.
// This is our domain model, independent of the wire format.
type Transfer struct {
	From     solana.PublicKey `json:"from"`
	To       solana.PublicKey `json:"to"`
	Lamports uint64           `json:"lamports"`
}

// TransactionSummary describes an unsigned transaction produced by the
// actions endpoints.
type TransactionSummary struct {
	FeePayer           solana.PublicKey `json:"fee_payer"`
	RecentBlockhash    solana.Hash      `json:"recent_blockhash"`
	RequiredSignatures int              `json:"required_signatures"`
	Signed             bool             `json:"signed"`
	Transfers          []Transfer       `json:"transfers"`
}
