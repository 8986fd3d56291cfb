package actions

import (
	"context"
	"math"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"
)

// ChainReader is the read-only view of the chain the guard needs.
// *solana.Client from service/solana satisfies it.
type ChainReader interface {
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// Guard fetches the blockhash a transfer is bound to and, unless told to
// skip, verifies the sender can pay for it.
type Guard struct {
	chain ChainReader
}

// NewGuard creates a Guard over chain.
func NewGuard(chain ChainReader) *Guard {
	return &Guard{chain: chain}
}

// Check returns a fresh blockhash for a transfer of lamports from account.
//
// With skip set only the blockhash is fetched. Otherwise the balance and the
// blockhash are fetched concurrently and both are awaited before deciding:
// a balance error wins, then insufficient funds, then a blockhash error.
func (g *Guard) Check(ctx context.Context, account solana.PublicKey, lamports uint64, skip bool) (solana.Hash, error) {
	if skip {
		blockhash, err := g.chain.GetLatestBlockhash(ctx)
		if err != nil {
			return solana.Hash{}, &UpstreamError{Err: err}
		}
		return blockhash, nil
	}

	var (
		balance      uint64
		blockhash    solana.Hash
		balanceErr   error
		blockhashErr error
	)

	// Each branch owns its result; the group is only the join.
	var group errgroup.Group
	group.Go(func() error {
		balance, balanceErr = g.chain.GetBalance(ctx, account)
		return balanceErr
	})
	group.Go(func() error {
		blockhash, blockhashErr = g.chain.GetLatestBlockhash(ctx)
		return blockhashErr
	})
	_ = group.Wait()

	if balanceErr != nil {
		return solana.Hash{}, &UpstreamError{Err: balanceErr}
	}
	if !covers(balance, lamports) {
		return solana.Hash{}, &InsufficientFundsError{Have: balance, Need: lamports}
	}
	if blockhashErr != nil {
		return solana.Hash{}, &UpstreamError{Err: blockhashErr}
	}

	return blockhash, nil
}

// covers reports whether balance pays for lamports plus one signature fee.
// TODO: scale the fee by signer count if multi-signer actions are added.
func covers(balance, lamports uint64) bool {
	if lamports > math.MaxUint64-LamportsPerSignature {
		return false
	}
	return balance >= lamports+LamportsPerSignature
}
