package dropin

import (
	"errors"
	"strings"

	"dropin-checkout-api/models"
)

// ErrAuthorizationMissing is the one fatal assembly failure: without an
// authorization token the widget cannot be created at all. Every other
// absent field just drops its key.
var ErrAuthorizationMissing = errors.New("authorization missing")

// Assemble builds the widget creation options from the current snapshot.
// It is pure and recomputes everything from scratch on each call; nothing
// is cached between renders, so there is no stale state to invalidate.
//
// Callers are expected to have passed the readiness gate first. An enabled
// capability with some fields still absent is assembled anyway with those
// fields omitted; the widget itself tolerates omitted optional fields.
func Assemble(s *models.Snapshot) (*Options, error) {
	auth, ok := s.Authorization.StringValue()
	if !ok || auth == "" {
		return nil, ErrAuthorizationMissing
	}

	opts := &Options{
		Authorization:                 auth,
		Container:                     "",
		DataCollector:                 s.DataCollector,
		Locale:                        s.Locale,
		PaymentOptionPriority:         splitList(s.PaymentOptionPriority),
		PreselectVaultedPaymentMethod: s.PreselectVaultedPaymentMethod,
		ThreeDSecure:                  s.ThreeDSecureEnabled,
		Venmo:                         s.Venmo,
		VaultManager:                  s.VaultManager,
	}

	if s.CardEnabled {
		opts.Card = assembleCard(&s.Card)
	}
	if s.PayPalEnabled {
		opts.PayPal = assemblePayPal(&s.PayPal)
	}
	if s.ApplePayEnabled {
		opts.ApplePay = assembleApplePay(&s.ApplePay)
	}
	if s.GooglePayEnabled {
		opts.GooglePay = assembleGooglePay(&s.GooglePay)
	}

	return opts, nil
}

func assembleCard(c *models.CardSettings) *CardOptions {
	return &CardOptions{
		CardholderName: CardholderName{
			Required: c.CardholderNameRequired,
			Enabled:  c.CardholderName,
		},
		ClearFieldsAfterTokenization: c.ClearFieldsAfterTokenization,
		Overrides: CardOverrides{
			Fields: projectCardOverrides(c.Overrides),
		},
		Vault: CardVault{
			AllowVaultCardOverride: c.AllowVaultCardOverride,
			VaultCard:              c.VaultCard,
		},
	}
}

func assemblePayPal(p *models.PayPalSettings) *PayPalOptions {
	return &PayPalOptions{
		Amount: amountString(p.Amount),
		ButtonStyle: PayPalButtonStyle{
			Color:   p.ButtonColor,
			Label:   p.ButtonLabel,
			Shape:   p.ButtonShape,
			Size:    p.ButtonSize,
			Tagline: p.ButtonTagline,
		},
		Commit:    p.Commit,
		Currency:  normString(p.Currency),
		Flow:      p.Flow,
		Vault:     PayPalVault{VaultPayPal: p.VaultPayPal},
		LineItems: projectPayPalLineItems(p.LineItems, p.Bindings),
	}
}

func assembleApplePay(a *models.ApplePaySettings) *ApplePayOptions {
	return &ApplePayOptions{
		ApplePaySessionVersion: a.SessionVersion,
		// Enumeration sources cannot carry hyphens, so the style token
		// arrives underscored and the widget wants it hyphenated.
		ButtonStyle: strings.ReplaceAll(a.ButtonStyle, "_", "-"),
		DisplayName: trimOrEmpty(a.DisplayName),
		PaymentRequest: ApplePaymentRequest{
			CountryCode:  normString(a.CountryCode),
			CurrencyCode: normString(a.CurrencyCode),
			// supports3DS is mandatory for every Apple Pay merchant and is
			// always prepended to whatever the host declared.
			MerchantCapabilities:         splitList("supports3DS, " + a.MerchantCapabilities),
			RequiredBillingContactFields: splitList(a.RequiredBillingContactFields),
			SupportedNetworks:            splitList(a.SupportedNetworks),
			Total: ApplePayTotal{
				Amount: amountString(a.TotalAmount),
				Label:  trimOrEmpty(a.TotalLabel),
				Type:   a.TotalType,
			},
			LineItems: projectAppleLineItems(a.LineItems, a.Bindings),
		},
	}
}

func assembleGooglePay(g *models.GooglePaySettings) *GooglePayOptions {
	return &GooglePayOptions{
		Button: GooglePayButton{
			ButtonColor:    g.ButtonColor,
			ButtonSizeMode: g.ButtonSizeMode,
			ButtonType:     g.ButtonType,
		},
		GooglePayVersion: g.GooglePayVersion,
		MerchantID:       normString(g.MerchantID),
		TransactionInfo: GoogleTransactionInfo{
			CheckoutOption:   g.CheckoutOption,
			CountryCode:      normString(g.CountryCode),
			CurrencyCode:     normString(g.CurrencyCode),
			DisplayItems:     projectDisplayItems(g.DisplayItems, g.Bindings),
			TotalPrice:       amountString(g.TotalPrice),
			TotalPriceLabel:  trimOrEmpty(g.TotalPriceLabel),
			TotalPriceStatus: g.TotalPriceStatus,
		},
	}
}
