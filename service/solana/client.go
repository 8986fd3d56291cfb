package solana

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/blinkshop/service/metrics"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)
}

// Client provides the read-only chain queries used while building actions.
// Every call is a single attempt; failures are wrapped and returned.
type Client struct {
	rpc        RPCClient
	commitment rpc.CommitmentType
	logger     *slog.Logger
	metrics    *metrics.Metrics
	endpoint   string // RPC endpoint identifier for metrics (e.g., "devnet", rpc host)
}

// NewClient creates a new Solana client.
// The endpoint parameter is used for metrics labeling.
// If metrics is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, commitment rpc.CommitmentType, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:        rpcClient,
		commitment: commitment,
		logger:     logger,
		metrics:    m,
		endpoint:   endpoint,
	}
}

// GetBalance returns the lamport balance of account.
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	c.record(ctx, "GetBalance", start, err)
	if err != nil {
		return 0, fmt.Errorf("get balance for %s: %w", account, err)
	}
	if out == nil {
		return 0, fmt.Errorf("get balance for %s: empty response", account)
	}

	c.logger.DebugContext(ctx, "fetched balance",
		"account", account.String(),
		"lamports", out.Value,
	)
	return out.Value, nil
}

// GetLatestBlockhash returns the most recent blockhash at the configured commitment.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	start := time.Now()
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	c.record(ctx, "GetLatestBlockhash", start, err)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: empty response")
	}

	c.logger.DebugContext(ctx, "fetched latest blockhash",
		"blockhash", out.Value.Blockhash.String(),
		"last_valid_block_height", out.Value.LastValidBlockHeight,
	)
	return out.Value.Blockhash, nil
}

func (c *Client) record(ctx context.Context, method string, start time.Time, err error) {
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		c.logger.ErrorContext(ctx, "solana rpc call failed",
			"method", method,
			"endpoint", c.endpoint,
			"error", err,
		)
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall(method, status, c.endpoint, duration)
	}
}
