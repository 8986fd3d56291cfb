package actions

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// LamportsPerSOL is the fixed lamport-per-SOL ratio.
	LamportsPerSOL uint64 = 1_000_000_000

	// LamportsPerSignature is the fixed network fee per signature.
	// Every action transaction has exactly one signer, the sender.
	LamportsPerSignature uint64 = 5_000
)

// ToLamports converts SOL to lamports, truncating toward zero.
// ToLamports(ToSOL(x)) is not guaranteed to equal x: float precision can
// lose up to one lamport, which is accepted rather than rounded away.
func ToLamports(sol float64) uint64 {
	return uint64(sol * float64(LamportsPerSOL))
}

// ToSOL converts lamports to SOL.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(LamportsPerSOL)
}

// FormatSOL renders a lamport amount as an exact SOL decimal string for
// messages. Display only; never parse it back.
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).String()
}

// formatAmount renders a SOL float in its shortest decimal form.
func formatAmount(sol float64) string {
	return decimal.NewFromFloat(sol).String()
}
