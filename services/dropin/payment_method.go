package dropin

import "dropin-checkout-api/models"

// BuildPaymentMethodOptions builds the submission-time options. The result
// is nil unless 3-D Secure is enabled; the widget treats a missing options
// object and a disabled one differently, so nil must stay nil.
func BuildPaymentMethodOptions(s *models.Snapshot) *PaymentMethodOptions {
	if !s.ThreeDSecureEnabled {
		return nil
	}
	tds := s.ThreeDSecure

	amount := amountString(tds.Amount)
	if amount == "" {
		amount = "0"
	}

	return &PaymentMethodOptions{
		ThreeDSecure: &ThreeDSecureOptions{
			Amount:            amount,
			Email:             normString(tds.Email),
			MobilePhoneNumber: phoneDigits(tds.MobilePhoneNumber),
			BillingAddress: ThreeDSecureBillingAddress{
				GivenName:         normString(tds.BillingGivenName),
				Surname:           normString(tds.BillingSurname),
				PhoneNumber:       phoneDigits(tds.BillingPhoneNumber),
				StreetAddress:     normString(tds.BillingStreetAddress),
				ExtendedAddress:   normString(tds.BillingExtendedAddress),
				Line3:             normString(tds.BillingLine3),
				Locality:          normString(tds.BillingLocality),
				Region:            normString(tds.BillingRegion),
				PostalCode:        normString(tds.BillingPostalCode),
				CountryCodeAlpha2: normString(tds.BillingCountryCodeAlpha2),
			},
		},
	}
}

// phoneDigits reduces a phone field to digits; a value with no digits at
// all is absent.
func phoneDigits(f *models.Field) string {
	s, ok := f.StringValue()
	if !ok {
		return ""
	}
	out, present := normalizeString(digitsOnly(s))
	if !present {
		return ""
	}
	return out
}
