package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/brojonat/blinkshop/service/metrics"
	"github.com/brojonat/blinkshop/service/nats"
	"github.com/gagliardetto/solana-go"
)

// Action names, used for routing, metrics and events.
const (
	ActionTip      = "tip"
	ActionCheckout = "checkout"
)

// PublishTimeout bounds how long an action response waits on its event publish.
const PublishTimeout = 500 * time.Millisecond

// Wallets holds the operator-controlled destination addresses.
type Wallets struct {
	// TipTo receives tips when the request names no recipient.
	TipTo solana.PublicKey
	// Shop receives every checkout payment.
	Shop solana.PublicKey
}

// Service builds unsigned action transactions. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	guard     *Guard
	wallets   Wallets
	publisher nats.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates a Service reading balances and blockhashes from chain.
// If metrics is nil, no metrics will be recorded.
func NewService(chain ChainReader, wallets Wallets, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		guard:   NewGuard(chain),
		wallets: wallets,
		metrics: m,
		logger:  logger,
	}
}

// WithPublisher makes the service emit an ActionEvent for every transaction it returns.
func (s *Service) WithPublisher(p nats.Publisher) *Service {
	s.publisher = p
	return s
}

// Tip builds a tip from account to the requested (or default) recipient.
func (s *Service) Tip(ctx context.Context, account solana.PublicKey, params url.Values) (*ActionPostResponse, error) {
	p, err := ParseTipParams(params, s.wallets.TipTo)
	if err != nil {
		return nil, s.reject(ActionTip, err)
	}

	req := TransferRequest{
		Sender:           account,
		Recipient:        p.To,
		Lamports:         ToLamports(p.AmountSOL),
		SkipBalanceCheck: p.SkipBalanceCheck,
		AmountSOL:        p.AmountSOL,
	}
	event := func(blockhash solana.Hash) *nats.ActionEvent {
		return nats.NewActionEvent(ActionTip, account.String(), p.To.String(), req.Lamports, blockhash.String())
	}

	tx, err := s.transfer(ctx, ActionTip, req, event)
	if err != nil {
		return nil, err
	}

	return &ActionPostResponse{
		Transaction: tx,
		Message:     fmt.Sprintf("Tip %s SOL to %s", formatAmount(p.AmountSOL), p.To),
	}, nil
}

// Checkout builds a payment for qty units of a catalog item to the shop wallet.
func (s *Service) Checkout(ctx context.Context, account solana.PublicKey, params url.Values) (*ActionPostResponse, error) {
	p, err := ParseCheckoutParams(params)
	if err != nil {
		return nil, s.reject(ActionCheckout, err)
	}

	amountSOL := p.Item.PriceSOL * float64(p.Quantity)
	req := TransferRequest{
		Sender:           account,
		Recipient:        s.wallets.Shop,
		Lamports:         ToLamports(amountSOL),
		SkipBalanceCheck: p.SkipBalanceCheck,
		AmountSOL:        amountSOL,
	}
	event := func(blockhash solana.Hash) *nats.ActionEvent {
		e := nats.NewActionEvent(ActionCheckout, account.String(), s.wallets.Shop.String(), req.Lamports, blockhash.String())
		e.SKU = p.SKU
		e.Quantity = p.Quantity
		return e
	}

	tx, err := s.transfer(ctx, ActionCheckout, req, event)
	if err != nil {
		return nil, err
	}

	return &ActionPostResponse{
		Transaction: tx,
		Message: fmt.Sprintf("Checkout ready: %d x %s (%s SOL) to shop wallet %s",
			p.Quantity, p.Item.Name, formatAmount(amountSOL), s.wallets.Shop),
	}, nil
}

// transfer runs the guard, assembles and serializes the transfer, then
// reports it. Nothing is assembled when the guard fails.
func (s *Service) transfer(ctx context.Context, action string, req TransferRequest, event func(solana.Hash) *nats.ActionEvent) (string, error) {
	if req.SkipBalanceCheck && s.metrics != nil {
		s.metrics.RecordBalanceCheckSkipped(action)
	}

	blockhash, err := s.guard.Check(ctx, req.Sender, req.Lamports, req.SkipBalanceCheck)
	if err != nil {
		var fundsErr *InsufficientFundsError
		if errors.As(err, &fundsErr) {
			fundsErr.RequestedSOL = req.AmountSOL
		}
		return "", s.reject(action, err)
	}

	tx, err := BuildTransfer(req.Sender, req.Recipient, req.Lamports, blockhash)
	if err != nil {
		return "", s.reject(action, err)
	}

	encoded, err := Serialize(tx)
	if err != nil {
		return "", s.reject(action, err)
	}

	s.logger.InfoContext(ctx, "built action transaction",
		"action", action,
		"account", req.Sender.String(),
		"recipient", req.Recipient.String(),
		"lamports", req.Lamports,
		"blockhash", blockhash.String(),
		"balance_check_skipped", req.SkipBalanceCheck,
	)
	if s.metrics != nil {
		s.metrics.RecordActionBuilt(action, req.Lamports)
	}
	e := event(blockhash)
	e.BalanceCheckSkipped = req.SkipBalanceCheck
	s.publish(ctx, e)

	return encoded, nil
}

// publish emits an event on a best-effort basis; the client already has its transaction.
// The publish is detached from the request and bounded by PublishTimeout.
func (s *Service) publish(ctx context.Context, event *nats.ActionEvent) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()
	if err := s.publisher.PublishAction(pubCtx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish action event",
			"event_id", event.ID,
			"action", event.Action,
			"error", err,
		)
	}
}

func (s *Service) reject(action string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordActionRejected(action, Reason(err))
	}
	return err
}
