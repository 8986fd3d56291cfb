package actions

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const (
	// DefaultTipSOL is used when a tip request carries no amount.
	DefaultTipSOL = 0.01

	// MinTipSOL is the smallest tip accepted.
	MinTipSOL = 0.001

	// MinQuantity and MaxQuantity bound a checkout.
	MinQuantity = 1
	MaxQuantity = 20
)

// GetString returns the raw value of key.
func GetString(params url.Values, key string) (string, error) {
	if !params.Has(key) {
		return "", MissingParameter(key)
	}
	return params.Get(key), nil
}

// GetUint parses key as a base-10 unsigned integer.
func GetUint(params url.Values, key string) (uint64, error) {
	raw, err := GetString(params, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, InvalidParameter(key)
	}
	return v, nil
}

// GetFloat parses key as a finite float.
func GetFloat(params url.Values, key string) (float64, error) {
	raw, err := GetString(params, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, InvalidParameter(key)
	}
	return v, nil
}

// GetBool reports whether key is a case-insensitive "true".
// Anything else, including absence, is false.
func GetBool(params url.Values, key string) bool {
	return strings.EqualFold(params.Get(key), "true")
}

// TipParams are the validated query parameters of a tip.
type TipParams struct {
	To               solana.PublicKey
	AmountSOL        float64
	SkipBalanceCheck bool
}

// ParseTipParams validates a tip query. to defaults to defaultTo and amount to DefaultTipSOL.
func ParseTipParams(params url.Values, defaultTo solana.PublicKey) (TipParams, error) {
	p := TipParams{
		To:               defaultTo,
		AmountSOL:        DefaultTipSOL,
		SkipBalanceCheck: GetBool(params, "skip_balance_check"),
	}

	if params.Has("to") {
		to, err := solana.PublicKeyFromBase58(params.Get("to"))
		if err != nil {
			return TipParams{}, BadRequest("Invalid recipient pubkey")
		}
		p.To = to
	}

	if params.Has("amount") {
		amount, err := GetFloat(params, "amount")
		if err != nil {
			return TipParams{}, err
		}
		p.AmountSOL = amount
	}

	if p.AmountSOL < MinTipSOL {
		return TipParams{}, BadRequest("Amount must be at least %s SOL", formatAmount(MinTipSOL))
	}
	if p.AmountSOL*float64(LamportsPerSOL) >= math.MaxUint64 {
		return TipParams{}, BadRequest("Amount is too large")
	}

	return p, nil
}

// CheckoutParams are the validated query parameters of a checkout.
type CheckoutParams struct {
	SKU              string
	Quantity         uint64
	Item             CatalogItem
	SkipBalanceCheck bool
}

// ParseCheckoutParams validates a checkout query and resolves its catalog item.
func ParseCheckoutParams(params url.Values) (CheckoutParams, error) {
	sku, err := GetString(params, "sku")
	if err != nil {
		return CheckoutParams{}, err
	}
	qty, err := GetUint(params, "qty")
	if err != nil {
		return CheckoutParams{}, err
	}

	if qty < MinQuantity || qty > MaxQuantity {
		return CheckoutParams{}, BadRequest("Quantity must be between %d and %d", MinQuantity, MaxQuantity)
	}

	item, ok := Lookup(sku)
	if !ok {
		return CheckoutParams{}, BadRequest("Unknown sku. Use coffee, sticker, or hoodie")
	}

	return CheckoutParams{
		SKU:              sku,
		Quantity:         qty,
		Item:             item,
		SkipBalanceCheck: GetBool(params, "skip_balance_check"),
	}, nil
}
