package dropin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropin-checkout-api/models"
)

func TestAssembleAuthorization(t *testing.T) {
	t.Run("absent authorization is fatal", func(t *testing.T) {
		_, err := Assemble(&models.Snapshot{})
		assert.ErrorIs(t, err, ErrAuthorizationMissing)
	})

	t.Run("loading authorization is fatal", func(t *testing.T) {
		_, err := Assemble(&models.Snapshot{Authorization: models.Loading()})
		assert.ErrorIs(t, err, ErrAuthorizationMissing)
	})

	t.Run("empty authorization is fatal", func(t *testing.T) {
		_, err := Assemble(&models.Snapshot{Authorization: models.Available("")})
		assert.ErrorIs(t, err, ErrAuthorizationMissing)
	})

	t.Run("whitespace authorization passes untrimmed", func(t *testing.T) {
		opts, err := Assemble(&models.Snapshot{Authorization: models.Available("  tok  ")})
		require.NoError(t, err)
		assert.Equal(t, "  tok  ", opts.Authorization)
	})
}

func TestAssembleMinimal(t *testing.T) {
	opts, err := Assemble(&models.Snapshot{Authorization: models.Available("sandbox_token")})
	require.NoError(t, err)

	assert.Equal(t, "sandbox_token", opts.Authorization)
	assert.Nil(t, opts.Card)
	assert.Nil(t, opts.PayPal)
	assert.Nil(t, opts.ApplePay)
	assert.Nil(t, opts.GooglePay)
	assert.Nil(t, opts.PaymentOptionPriority)

	// Disabled sections must not serialize at all.
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "card")
	assert.NotContains(t, m, "paypal")
	assert.NotContains(t, m, "applePay")
	assert.NotContains(t, m, "googlePay")
	assert.NotContains(t, m, "paymentOptionPriority")
}

func TestAssembleTopLevel(t *testing.T) {
	s := &models.Snapshot{
		Authorization:         models.Available("token"),
		DataCollector:         true,
		Locale:                "en_US",
		PaymentOptionPriority: "card, paypal ,venmo",
		Venmo:                 true,
		ThreeDSecureEnabled:   true,
	}

	opts, err := Assemble(s)
	require.NoError(t, err)
	assert.True(t, opts.DataCollector)
	assert.Equal(t, "en_US", opts.Locale)
	assert.Equal(t, []string{"card", "paypal", "venmo"}, opts.PaymentOptionPriority)
	assert.True(t, opts.Venmo)
	assert.True(t, opts.ThreeDSecure)
}

func TestAssembleCardSection(t *testing.T) {
	t.Run("cardholder name requirement wins over enable flag", func(t *testing.T) {
		s := &models.Snapshot{
			Authorization: models.Available("token"),
			CardEnabled:   true,
			Card: models.CardSettings{
				CardholderName:         false,
				CardholderNameRequired: true,
			},
		}
		opts, err := Assemble(s)
		require.NoError(t, err)
		require.NotNil(t, opts.Card)

		raw, err := json.Marshal(opts.Card.CardholderName)
		require.NoError(t, err)
		assert.JSONEq(t, `{"required":true}`, string(raw))
	})

	t.Run("plain flag serializes as boolean", func(t *testing.T) {
		raw, err := json.Marshal(CardholderName{Enabled: true})
		require.NoError(t, err)
		assert.Equal(t, "true", string(raw))

		raw, err = json.Marshal(CardholderName{})
		require.NoError(t, err)
		assert.Equal(t, "false", string(raw))
	})

	t.Run("disabled mask serializes as literal false", func(t *testing.T) {
		raw, err := json.Marshal(MaskInput{})
		require.NoError(t, err)
		assert.Equal(t, "false", string(raw))

		raw, err = json.Marshal(MaskInput{Enabled: true, Character: "#", ShowLastFour: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"character":"#","showLastFour":true}`, string(raw))
	})
}

func TestAssembleApplePaySection(t *testing.T) {
	s := &models.Snapshot{
		Authorization:   models.Available("token"),
		ApplePayEnabled: true,
		ApplePay: models.ApplePaySettings{
			SessionVersion:       3,
			ButtonStyle:          "white_outline",
			DisplayName:          " My Store ",
			CountryCode:          models.Available("US"),
			CurrencyCode:         models.Available("USD"),
			MerchantCapabilities: "supportsCredit, supportsDebit",
			SupportedNetworks:    "visa, masterCard",
			TotalAmount:          models.Available("25.00"),
			TotalLabel:           "Total",
		},
	}

	opts, err := Assemble(s)
	require.NoError(t, err)
	require.NotNil(t, opts.ApplePay)

	ap := opts.ApplePay
	assert.Equal(t, "white-outline", ap.ButtonStyle)
	assert.Equal(t, "My Store", ap.DisplayName)
	assert.Equal(t,
		[]string{"supports3DS", "supportsCredit", "supportsDebit"},
		ap.PaymentRequest.MerchantCapabilities)
	assert.Equal(t, []string{"visa", "masterCard"}, ap.PaymentRequest.SupportedNetworks)
	assert.Equal(t, "25", ap.PaymentRequest.Total.Amount)
}

func TestAssembleApplePayCapabilitiesAlwaysInclude3DS(t *testing.T) {
	s := &models.Snapshot{
		Authorization:   models.Available("token"),
		ApplePayEnabled: true,
	}
	opts, err := Assemble(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"supports3DS"}, opts.ApplePay.PaymentRequest.MerchantCapabilities)
}

func TestAssemblePayPalSection(t *testing.T) {
	s := &models.Snapshot{
		Authorization: models.Available("token"),
		PayPalEnabled: true,
		PayPal: models.PayPalSettings{
			Amount:   models.Available("10.50"),
			Currency: models.Available(" USD "),
			Flow:     "checkout",
			Commit:   true,
		},
	}

	opts, err := Assemble(s)
	require.NoError(t, err)
	require.NotNil(t, opts.PayPal)
	assert.Equal(t, "10.5", opts.PayPal.Amount)
	assert.Equal(t, "USD", opts.PayPal.Currency)
	assert.True(t, opts.PayPal.Commit)
	assert.NotNil(t, opts.PayPal.LineItems)
	assert.Empty(t, opts.PayPal.LineItems)
}

func TestAssembleGooglePaySection(t *testing.T) {
	s := &models.Snapshot{
		Authorization:    models.Available("token"),
		GooglePayEnabled: true,
		GooglePay: models.GooglePaySettings{
			GooglePayVersion: 2,
			MerchantID:       models.Available("merchant-123"),
			CountryCode:      models.Available("US"),
			CurrencyCode:     models.Available("USD"),
			TotalPrice:       models.Available("99.99"),
			TotalPriceStatus: "FINAL",
		},
	}

	opts, err := Assemble(s)
	require.NoError(t, err)
	require.NotNil(t, opts.GooglePay)
	assert.Equal(t, "merchant-123", opts.GooglePay.MerchantID)
	assert.Equal(t, "99.99", opts.GooglePay.TransactionInfo.TotalPrice)
	assert.Equal(t, "FINAL", opts.GooglePay.TransactionInfo.TotalPriceStatus)
	assert.NotNil(t, opts.GooglePay.TransactionInfo.DisplayItems)
	assert.Empty(t, opts.GooglePay.TransactionInfo.DisplayItems)
}
