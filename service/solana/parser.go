package solana

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// System Program instruction types
const (
	SystemProgramTransferInstruction = uint32(2)
)

// Summarize decodes the fee payer, blockhash and native transfers of tx.
// Instructions for other programs and System Program instructions other
// than Transfer are ignored.
func Summarize(tx *solana.Transaction) (*TransactionSummary, error) {
	if tx == nil {
		return nil, fmt.Errorf("nil transaction")
	}

	accountKeys := tx.Message.AccountKeys
	if len(accountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	summary := &TransactionSummary{
		FeePayer:           accountKeys[0],
		RecentBlockhash:    tx.Message.RecentBlockhash,
		RequiredSignatures: int(tx.Message.Header.NumRequiredSignatures),
	}
	for _, sig := range tx.Signatures {
		if sig != (solana.Signature{}) {
			summary.Signed = true
			break
		}
	}

	for i, instruction := range tx.Message.Instructions {
		if int(instruction.ProgramIDIndex) >= len(accountKeys) {
			return nil, fmt.Errorf("instruction %d: program index %d out of bounds", i, instruction.ProgramIDIndex)
		}
		programID := accountKeys[instruction.ProgramIDIndex]
		if !programID.Equals(solana.SystemProgramID) {
			continue
		}
		if len(instruction.Data) >= 4 && binary.LittleEndian.Uint32(instruction.Data[0:4]) != SystemProgramTransferInstruction {
			continue
		}

		transfer, err := parseSystemTransfer(instruction, accountKeys)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		summary.Transfers = append(summary.Transfers, *transfer)
	}

	return summary, nil
}

// parseSystemTransfer extracts the amount and both parties from a System Program Transfer instruction.
func parseSystemTransfer(instruction solana.CompiledInstruction, accountKeys []solana.PublicKey) (*Transfer, error) {
	// System Transfer instruction format:
	// [0..4]  = instruction type (u32, should be 2 for Transfer)
	// [4..12] = lamports (u64)
	if len(instruction.Data) < 12 {
		return nil, fmt.Errorf("instruction data too short: %d bytes", len(instruction.Data))
	}

	instructionType := binary.LittleEndian.Uint32(instruction.Data[0:4])
	if instructionType != SystemProgramTransferInstruction {
		return nil, fmt.Errorf("not a transfer instruction: type %d", instructionType)
	}

	// System Transfer accounts: [from, to]
	if len(instruction.Accounts) < 2 {
		return nil, fmt.Errorf("transfer instruction has %d accounts, want 2", len(instruction.Accounts))
	}
	from, to := instruction.Accounts[0], instruction.Accounts[1]
	if int(from) >= len(accountKeys) || int(to) >= len(accountKeys) {
		return nil, fmt.Errorf("transfer account index out of bounds")
	}

	return &Transfer{
		From:     accountKeys[from],
		To:       accountKeys[to],
		Lamports: binary.LittleEndian.Uint64(instruction.Data[4:12]),
	}, nil
}
