package actions

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// TransferRequest is a native transfer an action wants built.
type TransferRequest struct {
	Sender           solana.PublicKey
	Recipient        solana.PublicKey
	Lamports         uint64
	SkipBalanceCheck bool

	// AmountSOL is the requested amount before truncation, for messages.
	AmountSOL float64
}

// BuildTransfer assembles an unsigned transaction holding exactly one System
// Program transfer. The sender pays the fee and the message is bound to
// blockhash. Signature slots are present but zeroed so the transaction
// encodes in the canonical wire format the client will sign.
func BuildTransfer(sender, recipient solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	ix := system.NewTransferInstruction(lamports, sender, recipient).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(sender),
	)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("build transfer: %w", err)}
	}

	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx, nil
}
