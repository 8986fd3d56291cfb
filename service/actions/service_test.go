package actions

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/brojonat/blinkshop/service/metrics"
	"github.com/brojonat/blinkshop/service/nats"
	solsvc "github.com/brojonat/blinkshop/service/solana"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWallets = Wallets{TipTo: testOperator, Shop: testShop}

func newTestService(chain ChainReader) *Service {
	return NewService(chain, testWallets, nil, discardLogger())
}

// decodeTransfer decodes a response transaction and returns its only transfer.
func decodeTransfer(t *testing.T, resp *ActionPostResponse) (*solsvc.TransactionSummary, solsvc.Transfer) {
	t.Helper()
	tx, err := Decode(resp.Transaction)
	require.NoError(t, err)
	summary, err := solsvc.Summarize(tx)
	require.NoError(t, err)
	require.Len(t, summary.Transfers, 1)
	return summary, summary.Transfers[0]
}

func TestService_TipDefaults(t *testing.T) {
	svc := newTestService(newMockChain(1_000_000_000))

	resp, err := svc.Tip(context.Background(), testSender, url.Values{})
	require.NoError(t, err)

	summary, transfer := decodeTransfer(t, resp)
	assert.Equal(t, testSender, summary.FeePayer)
	assert.Equal(t, testBlockhash, summary.RecentBlockhash)
	assert.Equal(t, testOperator, transfer.To)
	assert.Equal(t, uint64(10_000_000), transfer.Lamports)
	assert.Equal(t, "Tip 0.01 SOL to "+testOperator.String(), resp.Message)
}

func TestService_TipToExplicitRecipient(t *testing.T) {
	svc := newTestService(newMockChain(1_000_000_000))

	resp, err := svc.Tip(context.Background(), testSender, url.Values{
		"to":     {"11111111111111111111111111111111"},
		"amount": {"0.01"},
	})
	require.NoError(t, err)

	_, transfer := decodeTransfer(t, resp)
	assert.Equal(t, "11111111111111111111111111111111", transfer.To.String())
	assert.Equal(t, uint64(10_000_000), transfer.Lamports)
}

func TestService_TipInsufficientFunds(t *testing.T) {
	reg := prometheus.NewRegistry()
	publisher := nats.NewMockPublisher()
	svc := NewService(newMockChain(10_000_000), testWallets, metrics.NewMetrics(reg), discardLogger()).
		WithPublisher(publisher)

	_, err := svc.Tip(context.Background(), testSender, url.Values{"amount": {"0.01"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Contains(t, err.Error(), "Insufficient balance")
	assert.Equal(t, 0, publisher.GetPublishedEventCount())

	count, err := testutil.GatherAndCount(reg, "actions_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_InsufficientFundsShowsRequestedAmount(t *testing.T) {
	item, ok := Lookup("coffee")
	require.True(t, ok)
	params := url.Values{"sku": {"coffee"}, "qty": {"11"}}

	resp, err := newTestService(newMockChain(1_000_000_000)).Checkout(context.Background(), testSender, params)
	require.NoError(t, err)
	amount := formatAmount(item.PriceSOL * 11)
	assert.Contains(t, resp.Message, "("+amount+" SOL)")

	_, err = newTestService(newMockChain(1_000)).Checkout(context.Background(), testSender, params)
	require.Error(t, err)
	assert.Equal(t, "Insufficient balance: you have 0.000001 SOL but need "+amount+" SOL + fees", err.Error())
}

func TestService_SkipBalanceCheck(t *testing.T) {
	chain := newMockChain(0)
	svc := newTestService(chain)

	resp, err := svc.Tip(context.Background(), testSender, url.Values{"skip_balance_check": {"true"}})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Transaction)
	assert.Equal(t, int32(0), chain.balanceCalls.Load())
	assert.Equal(t, int32(1), chain.blockhashCalls.Load())

	// Only a literal "true" skips.
	_, err = svc.Tip(context.Background(), testSender, url.Values{"skip_balance_check": {"1"}})
	var fundsErr *InsufficientFundsError
	assert.True(t, errors.As(err, &fundsErr))
}

func TestService_TipValidationSkipsChain(t *testing.T) {
	chain := newMockChain(1_000_000_000)
	svc := newTestService(chain)

	_, err := svc.Tip(context.Background(), testSender, url.Values{"amount": {"0.0001"}})
	require.Error(t, err)
	assert.Equal(t, "Amount must be at least 0.001 SOL", err.Error())
	assert.Equal(t, int32(0), chain.balanceCalls.Load())
	assert.Equal(t, int32(0), chain.blockhashCalls.Load())
}

func TestService_RPCFailure(t *testing.T) {
	chain := newMockChain(0)
	chain.balanceErr = errors.New("connection refused")
	svc := newTestService(chain)

	_, err := svc.Tip(context.Background(), testSender, url.Values{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, "RPC error: connection refused", err.Error())
}

func TestService_Checkout(t *testing.T) {
	svc := newTestService(newMockChain(1_000_000_000))

	resp, err := svc.Checkout(context.Background(), testSender, url.Values{"sku": {"coffee"}, "qty": {"2"}})
	require.NoError(t, err)

	summary, transfer := decodeTransfer(t, resp)
	assert.Equal(t, testSender, summary.FeePayer)
	assert.Equal(t, testSender, transfer.From)
	assert.Equal(t, testShop, transfer.To)
	assert.Equal(t, uint64(30_000_000), transfer.Lamports)
	assert.Equal(t, "Checkout ready: 2 x Drift Coffee (0.03 SOL) to shop wallet "+testShop.String(), resp.Message)
}

func TestService_CheckoutEveryItemAndQuantity(t *testing.T) {
	svc := newTestService(newMockChain(100_000_000_000))

	for _, sku := range SKUs() {
		item, _ := Lookup(sku)
		for qty := uint64(MinQuantity); qty <= MaxQuantity; qty++ {
			params := url.Values{"sku": {sku}, "qty": {strconv.FormatUint(qty, 10)}}
			resp, err := svc.Checkout(context.Background(), testSender, params)
			require.NoError(t, err, "%s x %d", sku, qty)

			_, transfer := decodeTransfer(t, resp)
			assert.Equal(t, testShop, transfer.To)
			assert.Equal(t, ToLamports(item.PriceSOL*float64(qty)), transfer.Lamports, "%s x %d", sku, qty)
		}
	}
}

func TestService_CheckoutRejectsQuantity(t *testing.T) {
	chain := newMockChain(100_000_000_000)
	svc := newTestService(chain)

	for _, qty := range []string{"0", "21"} {
		_, err := svc.Checkout(context.Background(), testSender, url.Values{"sku": {"coffee"}, "qty": {qty}})
		require.Error(t, err)
		assert.Equal(t, "Quantity must be between 1 and 20", err.Error())
	}
	assert.Equal(t, int32(0), chain.blockhashCalls.Load())
}

func TestService_PublishesEvents(t *testing.T) {
	publisher := nats.NewMockPublisher()
	svc := newTestService(newMockChain(1_000_000_000)).WithPublisher(publisher)

	_, err := svc.Checkout(context.Background(), testSender, url.Values{
		"sku":                {"hoodie"},
		"qty":                {"1"},
		"skip_balance_check": {"true"},
	})
	require.NoError(t, err)

	events := publisher.GetPublishedEvents()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, ActionCheckout, e.Action)
	assert.Equal(t, "actions.checkout", e.Subject())
	assert.Equal(t, testSender.String(), e.Account)
	assert.Equal(t, testShop.String(), e.Recipient)
	assert.Equal(t, uint64(80_000_000), e.Lamports)
	assert.Equal(t, testBlockhash.String(), e.Blockhash)
	assert.Equal(t, "hoodie", e.SKU)
	assert.Equal(t, uint64(1), e.Quantity)
	assert.True(t, e.BalanceCheckSkipped)
	assert.NotEmpty(t, e.ID)
}

func TestService_PublishFailureDoesNotFailAction(t *testing.T) {
	publisher := nats.NewMockPublisher()
	publisher.SetPublishError(errors.New("nats down"))
	svc := newTestService(newMockChain(1_000_000_000)).WithPublisher(publisher)

	resp, err := svc.Tip(context.Background(), testSender, url.Values{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Transaction)
}

// stalledPublisher blocks until its context ends.
type stalledPublisher struct {
	hasDeadline bool
	err         error
}

func (p *stalledPublisher) PublishAction(ctx context.Context, event *nats.ActionEvent) error {
	_, p.hasDeadline = ctx.Deadline()
	<-ctx.Done()
	p.err = ctx.Err()
	return p.err
}

func (p *stalledPublisher) Close() error { return nil }

func TestService_PublishIsBoundedAndDetached(t *testing.T) {
	publisher := &stalledPublisher{}
	svc := newTestService(newMockChain(1_000_000_000)).WithPublisher(publisher)

	// A cancelled request must not cut the publish short.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	resp, err := svc.Tip(ctx, testSender, url.Values{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Transaction)
	assert.True(t, publisher.hasDeadline)
	assert.ErrorIs(t, publisher.err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, elapsed, PublishTimeout)
	assert.Less(t, elapsed, PublishTimeout+2*time.Second)
}

func TestService_RecordsBuiltMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(newMockChain(1_000_000_000), testWallets, metrics.NewMetrics(reg), discardLogger())

	_, err := svc.Tip(context.Background(), testSender, url.Values{"skip_balance_check": {"true"}})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "actions_built_total", "actions_balance_check_skipped_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
