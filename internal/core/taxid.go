package core

import "strings"

// taxIDLen is the number of digits in a business tax ID (CNPJ).
const taxIDLen = 14

var taxIDStripper = strings.NewReplacer(",", "", ".", "", "-", "", "/", "")

// FormatTaxID rewrites a raw tax ID into the canonical DD.DDD.DDD/DDDD-DD form.
// Separators and surrounding whitespace are removed first; when exactly 14
// digits remain they are re-punctuated, otherwise the stripped value is
// returned unchanged. The result is best-effort, not a validated ID.
func FormatTaxID(raw string) string {
	s := strings.TrimSpace(taxIDStripper.Replace(strings.TrimSpace(raw)))
	if len(s) != taxIDLen || !isDigits(s) {
		return s
	}
	return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:]
}

// StripFloatSuffix removes a trailing ".0" left behind when an integer
// column was round-tripped through a float upstream.
func StripFloatSuffix(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
