package dropin

import (
	"github.com/shopspring/decimal"

	"dropin-checkout-api/models"
)

// accessor resolves one semantic attribute (amount, label, quantity) on a
// row handle. A nil accessor means the host never bound the attribute.
type accessor func(models.Row) *models.Field

// attr builds an accessor from a row attribute binding. Empty binding
// means not configured.
func attr(name string) accessor {
	if name == "" {
		return nil
	}
	return func(r models.Row) *models.Field {
		return r[name]
	}
}

// projectRows runs the shared projection algorithm: structural
// preconditions first (rows exist, every required accessor is bound), then
// an in-order pass handing each row to the record builder. Failing the
// preconditions is not an error; a provider section with no line items is
// valid, so the caller just gets nothing to append.
//
// Per-row loading checks are deliberately absent. The readiness gate
// upstream has already guaranteed the collection is resolved.
func projectRows(list *models.RowList, required []accessor, emit func(models.Row)) {
	if list == nil || len(list.Items) == 0 {
		return
	}
	for _, a := range required {
		if a == nil {
			return
		}
	}
	for _, row := range list.Items {
		emit(row)
	}
}

// normString unwraps a field and trims it, yielding "" for absent values
// so that omitempty drops the key.
func normString(f *models.Field) string {
	s, ok := f.StringValue()
	if !ok {
		return ""
	}
	out, present := normalizeString(s)
	if !present {
		return ""
	}
	return out
}

// enumString is normString with the outer enum separators stripped.
func enumString(f *models.Field) string {
	s, ok := f.StringValue()
	if !ok {
		return ""
	}
	out, present := normalizeEnum(s)
	if !present {
		return ""
	}
	return out
}

// amountString renders a numeric field the way the widget wants amounts:
// the decimal's plain string form, or "" when the value is absent.
func amountString(f *models.Field) string {
	d, ok := f.DecimalValue()
	if !ok {
		return ""
	}
	return d.String()
}

// projectCardOverrides keys each override row by its validated field
// identifier. Row order is irrelevant here, the output is keyed, but the
// omission rules are the same as every other projection.
func projectCardOverrides(overrides []models.CardFieldOverride) map[models.CardFieldID]*FieldOverride {
	fields := make(map[models.CardFieldID]*FieldOverride)
	for _, o := range overrides {
		fields[o.FieldID] = &FieldOverride{
			IframeTitle:   trimOrEmpty(o.IframeTitle),
			InternalLabel: trimOrEmpty(o.InternalLabel),
			Placeholder:   trimOrEmpty(o.Placeholder),
			Type:          trimOrEmpty(o.Type),
			FormatInput:   o.FormatInput,
			MaskInput: MaskInput{
				Enabled:      o.MaskInput,
				Character:    trimOrEmpty(o.MaskCharacter),
				ShowLastFour: o.MaskShowLastFour,
			},
			Select:        o.Select,
			MaxCardLength: o.MaxCardLength,
			Maxlength:     o.Maxlength,
			Minlength:     o.Minlength,
			Prefill:       normString(o.Prefill),
		}
	}
	return fields
}

func trimOrEmpty(s string) string {
	out, present := normalizeString(s)
	if !present {
		return ""
	}
	return out
}

// projectPayPalLineItems builds the PayPal line item records. Quantity
// defaults to "1" and kind to "debit" when their accessors are unbound.
// The unit tax amount is a domain rule, not a plain absence rule: it is
// emitted only when present and strictly positive.
func projectPayPalLineItems(list *models.RowList, b models.PayPalLineItemBindings) []PayPalLineItem {
	var (
		items      []PayPalLineItem
		quantity   = attr(b.Quantity)
		unitAmount = attr(b.UnitAmount)
		name       = attr(b.Name)
		kind       = attr(b.Kind)
		unitTax    = attr(b.UnitTaxAmount)
		desc       = attr(b.Description)
		pcode      = attr(b.ProductCode)
		url        = attr(b.URL)
	)
	projectRows(list, []accessor{unitAmount, name}, func(row models.Row) {
		item := PayPalLineItem{
			Quantity:   "1",
			UnitAmount: amountString(unitAmount(row)),
			Name:       normString(name(row)),
			Kind:       "debit",
		}
		// Defaults apply only when the accessor is unbound; a bound
		// accessor over an absent value omits the key instead.
		if quantity != nil {
			item.Quantity = amountString(quantity(row))
		}
		if kind != nil {
			item.Kind = enumString(kind(row))
		}
		if unitTax != nil {
			if d, ok := unitTax(row).DecimalValue(); ok && d.GreaterThan(decimal.Zero) {
				item.UnitTaxAmount = d.String()
			}
		}
		if desc != nil {
			item.Description = normString(desc(row))
		}
		if pcode != nil {
			item.ProductCode = normString(pcode(row))
		}
		if url != nil {
			item.URL = normString(url(row))
		}
		items = append(items, item)
	})
	if items == nil {
		return []PayPalLineItem{}
	}
	return items
}

// projectAppleLineItems builds the Apple Pay line item records; type,
// label and amount are all required accessors.
func projectAppleLineItems(list *models.RowList, b models.AppleLineItemBindings) []AppleLineItem {
	var (
		items  []AppleLineItem
		typ    = attr(b.Type)
		label  = attr(b.Label)
		amount = attr(b.Amount)
	)
	projectRows(list, []accessor{amount, label, typ}, func(row models.Row) {
		items = append(items, AppleLineItem{
			Type:   enumString(typ(row)),
			Label:  normString(label(row)),
			Amount: amountString(amount(row)),
		})
	})
	if items == nil {
		return []AppleLineItem{}
	}
	return items
}

// projectDisplayItems builds the Google Pay display item records. Type
// defaults to "LINE_ITEM" and status to "FINAL" when unbound.
func projectDisplayItems(list *models.RowList, b models.DisplayItemBindings) []DisplayItem {
	var (
		items  []DisplayItem
		label  = attr(b.Label)
		typ    = attr(b.Type)
		price  = attr(b.Price)
		status = attr(b.Status)
	)
	projectRows(list, []accessor{label, price}, func(row models.Row) {
		item := DisplayItem{
			Label:  normString(label(row)),
			Type:   "LINE_ITEM",
			Price:  amountString(price(row)),
			Status: "FINAL",
		}
		if typ != nil {
			item.Type = enumString(typ(row))
		}
		if status != nil {
			item.Status = enumString(status(row))
		}
		items = append(items, item)
	})
	if items == nil {
		return []DisplayItem{}
	}
	return items
}
