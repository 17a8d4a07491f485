package dropin

import (
	"regexp"
	"strings"
)

var (
	enumEdges = regexp.MustCompile(`^[_-]+|[_-]+$`)
	listEdges = regexp.MustCompile(`^\s*,\s*|\s*,\s*$`)
	listSep   = regexp.MustCompile(`\s*,\s*`)
	nonDigits = regexp.MustCompile(`[^0-9]`)
)

// normalizeString trims a raw scalar. Whitespace-only input is absent, not
// an empty string; callers rely on that to drop the key entirely.
func normalizeString(s string) (string, bool) {
	out := strings.TrimSpace(s)
	if out == "" {
		return "", false
	}
	return out, true
}

// normalizeValue is normalizeString lifted over untyped host values.
// Non-string values pass through unchanged.
func normalizeValue(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		out, present := normalizeString(s)
		if !present {
			return nil, false
		}
		return out, true
	}
	return v, true
}

// normalizeEnum additionally strips the outer run of underscore or hyphen
// separators that enumeration sources use as ordering prefixes. Only the
// outermost separators go: "_1_creditCard_" becomes "1_creditCard".
func normalizeEnum(s string) (string, bool) {
	out, present := normalizeString(s)
	if !present {
		return "", false
	}
	return enumEdges.ReplaceAllString(out, ""), true
}

// splitList turns a comma-separated scalar into its ordered tokens,
// dropping one leading or trailing comma and the whitespace around each
// separator. Absent input yields nil, never an empty slice, so callers can
// tell "not specified" from "specified as empty".
func splitList(s string) []string {
	out, present := normalizeString(s)
	if !present {
		return nil
	}
	out = listEdges.ReplaceAllString(out, "")
	return listSep.Split(out, -1)
}

// digitsOnly strips everything that is not 0-9, used for phone numbers the
// widget requires in digit form.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
