package dropin

import "dropin-checkout-api/models"

// Ready reports whether every field the current configuration depends on
// has finished resolving. Only fields belonging to an enabled capability
// count; a field the host never configured can never block. The widget
// configuration must not be assembled while this returns false, otherwise
// half-loaded collections would silently produce a stale configuration.
//
// The authorization token is held to a stricter bar than everything else:
// it must be strictly Available, not merely not-loading, because nothing
// can be assembled without it.
func Ready(s *models.Snapshot) bool {
	if s == nil || !s.Authorization.IsAvailable() {
		return false
	}

	if s.PayPalEnabled {
		if !s.PayPal.Amount.Ready() ||
			!s.PayPal.LineItems.Ready() ||
			!s.PayPal.Currency.Ready() {
			return false
		}
	}

	if s.ApplePayEnabled {
		if !s.ApplePay.TotalAmount.Ready() ||
			!s.ApplePay.LineItems.Ready() ||
			!s.ApplePay.CountryCode.Ready() ||
			!s.ApplePay.CurrencyCode.Ready() {
			return false
		}
	}

	if s.GooglePayEnabled {
		if !s.GooglePay.TotalPrice.Ready() ||
			!s.GooglePay.MerchantID.Ready() ||
			!s.GooglePay.DisplayItems.Ready() ||
			!s.GooglePay.CountryCode.Ready() ||
			!s.GooglePay.CurrencyCode.Ready() {
			return false
		}
	}

	if s.ThreeDSecureEnabled {
		tds := s.ThreeDSecure
		fields := []*models.Field{
			tds.Amount,
			tds.BillingCountryCodeAlpha2,
			tds.BillingExtendedAddress,
			tds.BillingGivenName,
			tds.BillingLine3,
			tds.BillingLocality,
			tds.BillingPhoneNumber,
			tds.BillingPostalCode,
			tds.BillingRegion,
			tds.BillingStreetAddress,
			tds.BillingSurname,
			tds.Email,
			tds.MobilePhoneNumber,
		}
		for _, f := range fields {
			if !f.Ready() {
				return false
			}
		}
	}

	// Override prefills are host data too; they gate readiness whenever
	// overrides exist, matching the widget's tolerance for a disabled card
	// section that still carries override rows.
	for _, o := range s.Card.Overrides {
		if !o.Prefill.Ready() {
			return false
		}
	}

	return true
}
