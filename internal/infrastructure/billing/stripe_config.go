package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v81/webhook"
)

// StripeConfig holds configuration for the Stripe webhook endpoint
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx).
	// Only needed by API calls; webhook verification works without it.
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// WebhookSecret is the signing secret of the webhook endpoint (whsec_xxx)
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// Tolerance is the maximum age of a signed payload
	Tolerance time.Duration `json:"tolerance" mapstructure:"tolerance"`
}

// DefaultStripeConfig returns a default configuration for development/testing
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		Tolerance: webhook.DefaultTolerance,
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if !strings.HasPrefix(c.WebhookSecret, "whsec_") {
		return fmt.Errorf("stripe: webhook secret must start with whsec_")
	}
	if c.SecretKey != "" && !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must be a secret or restricted key")
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("stripe: tolerance cannot be negative")
	}
	return nil
}

// IsLiveMode reports whether the secret key is a live key
func (c *StripeConfig) IsLiveMode() bool {
	return strings.HasPrefix(c.SecretKey, "sk_live") || strings.HasPrefix(c.SecretKey, "rk_live")
}
