package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/brojonat/blinkshop/service/actions"
	solanago "github.com/gagliardetto/solana-go"
)

const (
	maxRequestBodySize = 1 << 16 // 64KB - the body only carries an account
)

// actionFunc builds the transaction for one action. Service.Tip and
// Service.Checkout both satisfy it.
type actionFunc func(ctx context.Context, account solanago.PublicKey, params url.Values) (*actions.ActionPostResponse, error)

// handleActionsJSON returns the discovery document.
// GET /actions.json
func handleActionsJSON() http.Handler {
	doc := actions.Discovery()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, doc, http.StatusOK)
	})
}

// handleGetAction returns the static metadata of an action.
// GET /api/actions/{action}
func handleGetAction(meta actions.ActionGetResponse) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, meta, http.StatusOK)
	})
}

// handlePostAction builds an unsigned transaction for the posted account.
// POST /api/actions/{action}?{params}
func handlePostAction(action string, build actionFunc, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger).With("action", action)

		// Limit request body size to prevent DoS
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req actions.ActionPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Debug("invalid request body", "error", err)
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		account, err := solanago.PublicKeyFromBase58(req.Account)
		if err != nil {
			log.Debug("invalid account", "account", req.Account, "error", err)
			writeError(w, "Invalid account pubkey", http.StatusBadRequest)
			return
		}

		resp, err := build(r.Context(), account, r.URL.Query())
		if err != nil {
			status := actions.StatusCode(err)
			if status >= http.StatusInternalServerError {
				log.Error("failed to build action", "account", account.String(), "error", err)
			} else {
				log.Debug("rejected action", "account", account.String(), "error", err)
			}
			writeError(w, err.Error(), status)
			return
		}

		writeJSON(w, resp, http.StatusOK)
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, errorResponse{Message: message}, statusCode)
}
