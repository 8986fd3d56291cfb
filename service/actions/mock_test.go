package actions

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
)

var (
	testSender    = solana.MustPublicKeyFromBase58("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
	testOperator  = solana.MustPublicKeyFromBase58("DAw5ebjQBFruAFb7aehTTdbWixeTS3oS1BUAiZtKAvea")
	testShop      = solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
	testBlockhash = solana.MustHashFromBase58("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N")
)

// mockChain implements ChainReader for testing.
// Counters are atomic because the guard calls both methods concurrently.
type mockChain struct {
	balance      uint64
	blockhash    solana.Hash
	balanceErr   error
	blockhashErr error

	balanceCalls   atomic.Int32
	blockhashCalls atomic.Int32
}

func newMockChain(balance uint64) *mockChain {
	return &mockChain{balance: balance, blockhash: testBlockhash}
}

func (m *mockChain) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	m.balanceCalls.Add(1)
	if m.balanceErr != nil {
		return 0, m.balanceErr
	}
	return m.balance, nil
}

func (m *mockChain) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	m.blockhashCalls.Add(1)
	if m.blockhashErr != nil {
		return solana.Hash{}, m.blockhashErr
	}
	return m.blockhash, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
