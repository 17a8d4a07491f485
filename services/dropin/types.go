package dropin

import (
	"encoding/json"

	"dropin-checkout-api/models"
)

// Options is the configuration object handed to the embedded widget at
// creation time. A capability section pointer is nil exactly when its
// toggle is off; the widget distinguishes "section absent" from "section
// present but disabled", so a disabled section must not serialize at all.
type Options struct {
	Authorization                 string            `json:"authorization"`
	Container                     string            `json:"container"`
	DataCollector                 bool              `json:"dataCollector"`
	Locale                        string            `json:"locale,omitempty"`
	PaymentOptionPriority         []string          `json:"paymentOptionPriority,omitempty"`
	PreselectVaultedPaymentMethod bool              `json:"preselectVaultedPaymentMethod"`
	ThreeDSecure                  bool              `json:"threeDSecure"`
	Venmo                         bool              `json:"venmo"`
	VaultManager                  bool              `json:"vaultManager"`
	Card                          *CardOptions      `json:"card,omitempty"`
	PayPal                        *PayPalOptions    `json:"paypal,omitempty"`
	ApplePay                      *ApplePayOptions  `json:"applePay,omitempty"`
	GooglePay                     *GooglePayOptions `json:"googlePay,omitempty"`
}

// CardholderName serializes as {"required":true} when the requirement is
// set, falling back to the plain enable flag otherwise. The requirement
// always wins over the flag.
type CardholderName struct {
	Required bool
	Enabled  bool
}

func (c CardholderName) MarshalJSON() ([]byte, error) {
	if c.Required {
		return json.Marshal(struct {
			Required bool `json:"required"`
		}{Required: true})
	}
	return json.Marshal(c.Enabled)
}

// MaskInput serializes as a structured object when enabled and as the
// literal false otherwise; the widget rejects a bare true.
type MaskInput struct {
	Enabled      bool
	Character    string
	ShowLastFour bool
}

func (m MaskInput) MarshalJSON() ([]byte, error) {
	if !m.Enabled {
		return json.Marshal(false)
	}
	return json.Marshal(struct {
		Character    string `json:"character,omitempty"`
		ShowLastFour bool   `json:"showLastFour"`
	}{Character: m.Character, ShowLastFour: m.ShowLastFour})
}

type FieldOverride struct {
	IframeTitle   string    `json:"iframeTitle,omitempty"`
	InternalLabel string    `json:"internalLabel,omitempty"`
	Placeholder   string    `json:"placeholder,omitempty"`
	Type          string    `json:"type,omitempty"`
	FormatInput   bool      `json:"formatInput"`
	MaskInput     MaskInput `json:"maskInput"`
	Select        bool      `json:"select"`
	MaxCardLength int       `json:"maxCardLength,omitempty"`
	Maxlength     int       `json:"maxlength,omitempty"`
	Minlength     int       `json:"minlength,omitempty"`
	Prefill       string    `json:"prefill,omitempty"`
}

type CardOverrides struct {
	Fields map[models.CardFieldID]*FieldOverride `json:"fields"`
}

type CardVault struct {
	AllowVaultCardOverride bool `json:"allowVaultCardOverride"`
	VaultCard              bool `json:"vaultCard"`
}

type CardOptions struct {
	CardholderName               CardholderName `json:"cardholderName"`
	ClearFieldsAfterTokenization bool           `json:"clearFieldsAfterTokenization"`
	Overrides                    CardOverrides  `json:"overrides"`
	Vault                        CardVault      `json:"vault"`
}

type PayPalButtonStyle struct {
	Color   string `json:"color,omitempty"`
	Label   string `json:"label,omitempty"`
	Shape   string `json:"shape,omitempty"`
	Size    string `json:"size,omitempty"`
	Tagline bool   `json:"tagline"`
}

type PayPalVault struct {
	VaultPayPal bool `json:"vaultPayPal"`
}

type PayPalLineItem struct {
	Quantity      string `json:"quantity,omitempty"`
	UnitAmount    string `json:"unitAmount,omitempty"`
	Name          string `json:"name,omitempty"`
	Kind          string `json:"kind,omitempty"`
	UnitTaxAmount string `json:"unitTaxAmount,omitempty"`
	Description   string `json:"description,omitempty"`
	ProductCode   string `json:"productCode,omitempty"`
	URL           string `json:"url,omitempty"`
}

type PayPalOptions struct {
	Amount      string            `json:"amount,omitempty"`
	ButtonStyle PayPalButtonStyle `json:"buttonStyle"`
	Commit      bool              `json:"commit"`
	Currency    string            `json:"currency,omitempty"`
	Flow        string            `json:"flow,omitempty"`
	Vault       PayPalVault       `json:"vault"`
	LineItems   []PayPalLineItem  `json:"lineItems"`
}

type AppleLineItem struct {
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
	Amount string `json:"amount,omitempty"`
}

type ApplePayTotal struct {
	Amount string `json:"amount,omitempty"`
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
}

type ApplePaymentRequest struct {
	CountryCode                  string          `json:"countryCode,omitempty"`
	CurrencyCode                 string          `json:"currencyCode,omitempty"`
	MerchantCapabilities         []string        `json:"merchantCapabilities,omitempty"`
	RequiredBillingContactFields []string        `json:"requiredBillingContactFields,omitempty"`
	SupportedNetworks            []string        `json:"supportedNetworks,omitempty"`
	Total                        ApplePayTotal   `json:"total"`
	LineItems                    []AppleLineItem `json:"lineItems"`
}

type ApplePayOptions struct {
	ApplePaySessionVersion int                 `json:"applePaySessionVersion,omitempty"`
	ButtonStyle            string              `json:"buttonStyle,omitempty"`
	DisplayName            string              `json:"displayName,omitempty"`
	PaymentRequest         ApplePaymentRequest `json:"paymentRequest"`
}

type GooglePayButton struct {
	ButtonColor    string `json:"buttonColor,omitempty"`
	ButtonSizeMode string `json:"buttonSizeMode,omitempty"`
	ButtonType     string `json:"buttonType,omitempty"`
}

type DisplayItem struct {
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
	Price  string `json:"price,omitempty"`
	Status string `json:"status,omitempty"`
}

type GoogleTransactionInfo struct {
	CheckoutOption   string        `json:"checkoutOption,omitempty"`
	CountryCode      string        `json:"countryCode,omitempty"`
	CurrencyCode     string        `json:"currencyCode,omitempty"`
	DisplayItems     []DisplayItem `json:"displayItems"`
	TotalPrice       string        `json:"totalPrice,omitempty"`
	TotalPriceLabel  string        `json:"totalPriceLabel,omitempty"`
	TotalPriceStatus string        `json:"totalPriceStatus,omitempty"`
}

type GooglePayOptions struct {
	Button           GooglePayButton       `json:"button"`
	GooglePayVersion int                   `json:"googlePayVersion,omitempty"`
	MerchantID       string                `json:"merchantId,omitempty"`
	TransactionInfo  GoogleTransactionInfo `json:"transactionInfo"`
}

// PaymentMethodOptions is the secondary configuration passed to the widget
// at submission time rather than creation time.
type PaymentMethodOptions struct {
	ThreeDSecure *ThreeDSecureOptions `json:"threeDSecure,omitempty"`
}

type ThreeDSecureBillingAddress struct {
	GivenName         string `json:"givenName,omitempty"`
	Surname           string `json:"surname,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	StreetAddress     string `json:"streetAddress,omitempty"`
	ExtendedAddress   string `json:"extendedAddress,omitempty"`
	Line3             string `json:"line3,omitempty"`
	Locality          string `json:"locality,omitempty"`
	Region            string `json:"region,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	CountryCodeAlpha2 string `json:"countryCodeAlpha2,omitempty"`
}

type ThreeDSecureOptions struct {
	Amount            string                     `json:"amount"`
	Email             string                     `json:"email,omitempty"`
	MobilePhoneNumber string                     `json:"mobilePhoneNumber,omitempty"`
	BillingAddress    ThreeDSecureBillingAddress `json:"billingAddress"`
}
