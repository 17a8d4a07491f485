package models

import (
	"fmt"
	"time"
)

// CardFieldID enumerates the hosted fields a card override may target.
// Override rows are validated against this set when a session is created,
// instead of flowing arbitrary strings into the widget configuration.
type CardFieldID string

const (
	CardFieldNumber         CardFieldID = "number"
	CardFieldExpirationDate CardFieldID = "expirationDate"
	CardFieldCVV            CardFieldID = "cvv"
	CardFieldPostalCode     CardFieldID = "postalCode"
	CardFieldCardholderName CardFieldID = "cardholderName"
)

// ParseCardFieldID validates a raw field identifier.
func ParseCardFieldID(s string) (CardFieldID, error) {
	switch CardFieldID(s) {
	case CardFieldNumber, CardFieldExpirationDate, CardFieldCVV,
		CardFieldPostalCode, CardFieldCardholderName:
		return CardFieldID(s), nil
	}
	return "", fmt.Errorf("unknown card field id %q", s)
}

// CardFieldOverride is one hosted-field override row. Everything except the
// prefill is static configuration; the prefill is host data and resolves
// asynchronously like any other field.
type CardFieldOverride struct {
	FieldID          CardFieldID `json:"fieldId"`
	IframeTitle      string      `json:"iframeTitle,omitempty"`
	InternalLabel    string      `json:"internalLabel,omitempty"`
	Placeholder      string      `json:"placeholder,omitempty"`
	Type             string      `json:"type,omitempty"`
	FormatInput      bool        `json:"formatInput,omitempty"`
	MaskInput        bool        `json:"maskInput,omitempty"`
	MaskCharacter    string      `json:"maskCharacter,omitempty"`
	MaskShowLastFour bool        `json:"maskShowLastFour,omitempty"`
	Select           bool        `json:"select,omitempty"`
	MaxCardLength    int         `json:"maxCardLength,omitempty"`
	Maxlength        int         `json:"maxlength,omitempty"`
	Minlength        int         `json:"minlength,omitempty"`
	Prefill          *Field      `json:"prefill,omitempty"`
}

type CardSettings struct {
	CardholderName               bool                `json:"cardholderName,omitempty"`
	CardholderNameRequired       bool                `json:"cardholderNameRequired,omitempty"`
	ClearFieldsAfterTokenization bool                `json:"clearFieldsAfterTokenization,omitempty"`
	AllowVaultCardOverride       bool                `json:"allowVaultCardOverride,omitempty"`
	VaultCard                    bool                `json:"vaultCard,omitempty"`
	Overrides                    []CardFieldOverride `json:"overrides,omitempty"`
}

// PayPalLineItemBindings names the row attribute backing each line item
// accessor. An empty name means the accessor is not configured, which is
// different from a configured accessor over rows that carry no value.
type PayPalLineItemBindings struct {
	Quantity      string `json:"quantity,omitempty"`
	UnitAmount    string `json:"unitAmount,omitempty"`
	Name          string `json:"name,omitempty"`
	Kind          string `json:"kind,omitempty"`
	UnitTaxAmount string `json:"unitTaxAmount,omitempty"`
	Description   string `json:"description,omitempty"`
	ProductCode   string `json:"productCode,omitempty"`
	URL           string `json:"url,omitempty"`
}

type PayPalSettings struct {
	Amount        *Field                 `json:"amount,omitempty"`
	Currency      *Field                 `json:"currency,omitempty"`
	ButtonColor   string                 `json:"buttonColor,omitempty"`
	ButtonLabel   string                 `json:"buttonLabel,omitempty"`
	ButtonShape   string                 `json:"buttonShape,omitempty"`
	ButtonSize    string                 `json:"buttonSize,omitempty"`
	ButtonTagline bool                   `json:"buttonTagline,omitempty"`
	Commit        bool                   `json:"commit,omitempty"`
	Flow          string                 `json:"flow,omitempty"`
	VaultPayPal   bool                   `json:"vaultPayPal,omitempty"`
	LineItems     *RowList               `json:"lineItems,omitempty"`
	Bindings      PayPalLineItemBindings `json:"bindings,omitempty"`
}

type AppleLineItemBindings struct {
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
	Amount string `json:"amount,omitempty"`
}

type ApplePaySettings struct {
	SessionVersion               int                   `json:"sessionVersion,omitempty"`
	ButtonStyle                  string                `json:"buttonStyle,omitempty"`
	DisplayName                  string                `json:"displayName,omitempty"`
	CountryCode                  *Field                `json:"countryCode,omitempty"`
	CurrencyCode                 *Field                `json:"currencyCode,omitempty"`
	MerchantCapabilities         string                `json:"merchantCapabilities,omitempty"`
	RequiredBillingContactFields string                `json:"requiredBillingContactFields,omitempty"`
	SupportedNetworks            string                `json:"supportedNetworks,omitempty"`
	TotalAmount                  *Field                `json:"totalAmount,omitempty"`
	TotalLabel                   string                `json:"totalLabel,omitempty"`
	TotalType                    string                `json:"totalType,omitempty"`
	LineItems                    *RowList              `json:"lineItems,omitempty"`
	Bindings                     AppleLineItemBindings `json:"bindings,omitempty"`
}

type DisplayItemBindings struct {
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
	Price  string `json:"price,omitempty"`
	Status string `json:"status,omitempty"`
}

type GooglePaySettings struct {
	ButtonColor      string              `json:"buttonColor,omitempty"`
	ButtonSizeMode   string              `json:"buttonSizeMode,omitempty"`
	ButtonType       string              `json:"buttonType,omitempty"`
	GooglePayVersion int                 `json:"googlePayVersion,omitempty"`
	MerchantID       *Field              `json:"merchantId,omitempty"`
	CheckoutOption   string              `json:"checkoutOption,omitempty"`
	CountryCode      *Field              `json:"countryCode,omitempty"`
	CurrencyCode     *Field              `json:"currencyCode,omitempty"`
	TotalPrice       *Field              `json:"totalPrice,omitempty"`
	TotalPriceLabel  string              `json:"totalPriceLabel,omitempty"`
	TotalPriceStatus string              `json:"totalPriceStatus,omitempty"`
	DisplayItems     *RowList            `json:"displayItems,omitempty"`
	Bindings         DisplayItemBindings `json:"bindings,omitempty"`
}

type ThreeDSecureSettings struct {
	Amount                   *Field `json:"amount,omitempty"`
	Email                    *Field `json:"email,omitempty"`
	MobilePhoneNumber        *Field `json:"mobilePhoneNumber,omitempty"`
	BillingGivenName         *Field `json:"billingGivenName,omitempty"`
	BillingSurname           *Field `json:"billingSurname,omitempty"`
	BillingPhoneNumber       *Field `json:"billingPhoneNumber,omitempty"`
	BillingStreetAddress     *Field `json:"billingStreetAddress,omitempty"`
	BillingExtendedAddress   *Field `json:"billingExtendedAddress,omitempty"`
	BillingLine3             *Field `json:"billingLine3,omitempty"`
	BillingLocality          *Field `json:"billingLocality,omitempty"`
	BillingRegion            *Field `json:"billingRegion,omitempty"`
	BillingPostalCode        *Field `json:"billingPostalCode,omitempty"`
	BillingCountryCodeAlpha2 *Field `json:"billingCountryCodeAlpha2,omitempty"`
}

// Snapshot is the host's current view of one checkout: capability toggles,
// static widget settings, and async fields. The host replaces it wholesale
// on every render; nothing here is mutated incrementally on this side.
type Snapshot struct {
	Authorization                 *Field `json:"authorization,omitempty"`
	DataCollector                 bool   `json:"dataCollector,omitempty"`
	Locale                        string `json:"locale,omitempty"`
	PaymentOptionPriority         string `json:"paymentOptionPriority,omitempty"`
	PreselectVaultedPaymentMethod bool   `json:"preselectVaultedPaymentMethod,omitempty"`
	VaultManager                  bool   `json:"vaultManager,omitempty"`
	Venmo                         bool   `json:"venmo,omitempty"`

	CardEnabled         bool `json:"cardEnabled,omitempty"`
	PayPalEnabled       bool `json:"payPalEnabled,omitempty"`
	ApplePayEnabled     bool `json:"applePayEnabled,omitempty"`
	GooglePayEnabled    bool `json:"googlePayEnabled,omitempty"`
	ThreeDSecureEnabled bool `json:"threeDSecureEnabled,omitempty"`

	Card         CardSettings         `json:"card,omitempty"`
	PayPal       PayPalSettings       `json:"payPal,omitempty"`
	ApplePay     ApplePaySettings     `json:"applePay,omitempty"`
	GooglePay    GooglePaySettings    `json:"googlePay,omitempty"`
	ThreeDSecure ThreeDSecureSettings `json:"threeDSecure,omitempty"`
}

// Validate rejects snapshot configuration that can never assemble into a
// valid widget configuration. Missing or still-loading values are not
// validation errors; only structurally bad configuration is.
func (s *Snapshot) Validate() error {
	seen := make(map[CardFieldID]bool)
	for i, o := range s.Card.Overrides {
		id, err := ParseCardFieldID(string(o.FieldID))
		if err != nil {
			return fmt.Errorf("card override %d: %v", i, err)
		}
		if seen[id] {
			return fmt.Errorf("card override %d: duplicate field id %q", i, id)
		}
		seen[id] = true
	}
	return nil
}

// Progress indicator modes for the submission feedback.
const (
	ProgressNone        = "none"
	ProgressBlocking    = "blocking"
	ProgressNonBlocking = "nonBlocking"
)

// ActionHooks holds the host callback URLs for widget lifecycle events.
// An empty URL means the hook is not configured.
type ActionHooks struct {
	OnCreate       string `json:"onCreate,omitempty"`
	OnDestroyStart string `json:"onDestroyStart,omitempty"`
	OnDestroyEnd   string `json:"onDestroyEnd,omitempty"`
	OnError        string `json:"onError,omitempty"`
	OnSubmit       string `json:"onSubmit,omitempty"`

	ProgressMode    string `json:"progressMode,omitempty"`
	ProgressMessage string `json:"progressMessage,omitempty"`
}

// SubmitButtonStyle is passed through untouched for the widget client to
// render its custom submit control.
type SubmitButtonStyle struct {
	Style string `json:"style,omitempty"`
	Class string `json:"class,omitempty"`
	Text  string `json:"text,omitempty"`
}

/// CheckoutSession is one stored checkout: its current snapshot plus the
// per-session hook and styling configuration fixed at creation time.
type CheckoutSession struct {
	ID           string            `json:"id"`
	Snapshot     *Snapshot         `json:"snapshot"`
	Hooks        ActionHooks       `json:"hooks"`
	SubmitButton SubmitButtonStyle `json:"submitButton"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// SubmissionResult is produced once per successful widget submission and
// handed back to the host.
type SubmissionResult struct {
	SessionID  string    `json:"session_id"`
	Nonce      string    `json:"nonce"`
	DeviceData string    `json:"device_data"`
	CreatedAt  time.Time `json:"created_at"`
}
