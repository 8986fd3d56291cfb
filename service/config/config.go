package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// DefaultTipTo is the operator wallet tips go to when TIP_TO is unset.
const DefaultTipTo = "DAw5ebjQBFruAFb7aehTTdbWixeTS3oS1BUAiZtKAvea"

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	Host       string
	Port       int
	ServerAddr string
	LogLevel   string

	// PublicBaseURL is the externally reachable origin, used to build QR links.
	// Empty disables the QR endpoint.
	PublicBaseURL string

	// Solana configuration
	SolanaRPCURL     string
	SolanaCommitment rpc.CommitmentType

	// Destination wallets
	TipTo      solana.PublicKey
	ShopWallet solana.PublicKey

	// NATS configuration. Empty disables action events.
	NATSURL string

	MetricsEnabled bool
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.Host = getEnvOrDefault("HOST", "0.0.0.0")
	port, err := parseInt("PORT", 3000)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.Port = port
	}
	cfg.ServerAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.PublicBaseURL = strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/")

	// Solana configuration
	cfg.SolanaRPCURL = getEnvOrDefault("SOLANA_RPC_URL", rpc.DevNet_RPC)
	cfg.SolanaCommitment = rpc.CommitmentType(getEnvOrDefault("SOLANA_COMMITMENT", string(rpc.CommitmentFinalized)))

	// Wallets
	tipTo, err := parsePublicKey("TIP_TO", DefaultTipTo)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.TipTo = tipTo
	}

	shopWallet, err := parsePublicKey("SHOP_WALLET", getEnvOrDefault("TIP_TO", DefaultTipTo))
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ShopWallet = shopWallet
	}

	// NATS configuration
	cfg.NATSURL = os.Getenv("NATS_URL")

	metricsEnabled, err := parseBool("METRICS_ENABLED", true)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MetricsEnabled = metricsEnabled
	}

	// Range checks only run once every field parsed.
	if len(errs) == 0 {
		errs = append(errs, cfg.validate()...)
	}

	// Return all validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}
	return nil
}

func (c *Config) validate() []error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("Port must be between 1 and 65535"))
	}

	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	} else if u, err := url.Parse(c.SolanaRPCURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL must be an absolute URL"))
	}

	switch c.SolanaCommitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		errs = append(errs, fmt.Errorf("SolanaCommitment must be processed, confirmed or finalized, got %q", c.SolanaCommitment))
	}

	if c.TipTo.IsZero() {
		errs = append(errs, fmt.Errorf("TipTo is required"))
	}

	if c.ShopWallet.IsZero() {
		errs = append(errs, fmt.Errorf("ShopWallet is required"))
	}

	if c.PublicBaseURL != "" {
		if u, err := url.Parse(c.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PublicBaseURL must be an absolute URL"))
		}
	}

	return errs
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}

// parseBool parses a boolean from an environment variable or uses a default.
func parseBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return result, nil
}

// parsePublicKey parses a base58 public key from an environment variable or uses a default.
func parsePublicKey(key, defaultValue string) (solana.PublicKey, error) {
	value := getEnvOrDefault(key, defaultValue)
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: invalid public key %q: %w", key, value, err)
	}
	return pk, nil
}
