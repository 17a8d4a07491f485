package dropin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dropin-checkout-api/models"
)

func TestReadyAuthorization(t *testing.T) {
	t.Run("nil snapshot is not ready", func(t *testing.T) {
		assert.False(t, Ready(nil))
	})

	t.Run("unconfigured authorization blocks", func(t *testing.T) {
		assert.False(t, Ready(&models.Snapshot{}))
	})

	t.Run("loading authorization blocks", func(t *testing.T) {
		assert.False(t, Ready(&models.Snapshot{Authorization: models.Loading()}))
	})

	t.Run("available authorization alone is ready", func(t *testing.T) {
		assert.True(t, Ready(&models.Snapshot{Authorization: models.Available("sandbox_token")}))
	})

	t.Run("available empty authorization still passes the gate", func(t *testing.T) {
		// The gate checks resolution, not value. Emptiness is assembly's
		// problem.
		assert.True(t, Ready(&models.Snapshot{Authorization: models.Available("")}))
	})
}

func TestReadyEnabledCapabilities(t *testing.T) {
	base := func() *models.Snapshot {
		return &models.Snapshot{Authorization: models.Available("token")}
	}

	t.Run("loading paypal amount blocks when enabled", func(t *testing.T) {
		s := base()
		s.PayPalEnabled = true
		s.PayPal.Amount = models.Loading()
		assert.False(t, Ready(s))
	})

	t.Run("loading paypal amount ignored when disabled", func(t *testing.T) {
		s := base()
		s.PayPal.Amount = models.Loading()
		assert.True(t, Ready(s))
	})

	t.Run("unconfigured paypal fields never block", func(t *testing.T) {
		s := base()
		s.PayPalEnabled = true
		assert.True(t, Ready(s))
	})

	t.Run("loading apple pay collection blocks", func(t *testing.T) {
		s := base()
		s.ApplePayEnabled = true
		s.ApplePay.TotalAmount = models.Available("10.00")
		s.ApplePay.LineItems = &models.RowList{Status: models.StatusLoading}
		assert.False(t, Ready(s))
	})

	t.Run("loading google pay merchant id blocks", func(t *testing.T) {
		s := base()
		s.GooglePayEnabled = true
		s.GooglePay.MerchantID = models.Loading()
		assert.False(t, Ready(s))
	})

	t.Run("loading three d secure billing field blocks", func(t *testing.T) {
		s := base()
		s.ThreeDSecureEnabled = true
		s.ThreeDSecure.BillingPostalCode = models.Loading()
		assert.False(t, Ready(s))
	})

	t.Run("all enabled with everything resolved is ready", func(t *testing.T) {
		s := base()
		s.PayPalEnabled = true
		s.PayPal.Amount = models.Available("12.50")
		s.PayPal.Currency = models.Available("USD")
		s.PayPal.LineItems = &models.RowList{Status: models.StatusAvailable}
		s.ThreeDSecureEnabled = true
		s.ThreeDSecure.Amount = models.Available("12.50")
		s.ThreeDSecure.Email = models.Available("a@b.example")
		assert.True(t, Ready(s))
	})
}

func TestReadyCardOverridePrefills(t *testing.T) {
	t.Run("loading prefill blocks even with card disabled", func(t *testing.T) {
		s := &models.Snapshot{
			Authorization: models.Available("token"),
			Card: models.CardSettings{
				Overrides: []models.CardFieldOverride{
					{FieldID: models.CardFieldPostalCode, Prefill: models.Loading()},
				},
			},
		}
		assert.False(t, Ready(s))
	})

	t.Run("override without prefill never blocks", func(t *testing.T) {
		s := &models.Snapshot{
			Authorization: models.Available("token"),
			Card: models.CardSettings{
				Overrides: []models.CardFieldOverride{
					{FieldID: models.CardFieldNumber},
				},
			},
		}
		assert.True(t, Ready(s))
	})
}
