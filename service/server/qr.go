package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// actionURL builds the solana-action: URL a wallet scans to open an action.
// Query parameters are passed through so a QR can pin an item or amount.
// Format: solana-action:{link}, with link URL-encoded when it carries a query.
func actionURL(baseURL, path string, query url.Values) string {
	link := baseURL + path
	if len(query) == 0 {
		return "solana-action:" + link
	}
	return "solana-action:" + url.QueryEscape(link+"?"+query.Encode())
}

// generateQRCode creates a QR code image for data and returns it as PNG bytes.
func generateQRCode(data string, size int) ([]byte, error) {
	// Generate QR code with medium error correction
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code as PNG: %w", err)
	}
	return png, nil
}

// handleActionQR serves a PNG QR code that opens the action in a wallet.
// GET /api/actions/{action}/qr?size={px}&{action params}
func handleActionQR(baseURL, path string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		size := defaultQRSize
		if raw := query.Get("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < minQRSize || n > maxQRSize {
				writeError(w, fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize), http.StatusBadRequest)
				return
			}
			size = n
		}
		query.Del("size")

		png, err := generateQRCode(actionURL(baseURL, path, query), size)
		if err != nil {
			requestLogger(r, logger).Error("failed to generate QR code", "path", path, "error", err)
			writeError(w, "failed to generate QR code", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	})
}
