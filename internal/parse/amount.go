// Package parse extracts structured receipt fields (amount, date, merchant,
// category) from raw OCR text using regular-expression heuristics. Every
// extractor is a pure function over the input string: a miss produces a
// documented default value, never an error.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// ExtractedAmount is a monetary total pulled out of receipt text. Currency is
// either a symbol (£, $, €) or a 3-letter ISO code; Arabic currency glyphs
// are normalized to their ISO codes during extraction.
type ExtractedAmount struct {
	Currency string
	Amount   float64
}

// DefaultCurrency is assumed when no currency marker accompanies a number.
const DefaultCurrency = "£"

// currencyMarker matches the currency symbols, ISO-like codes and Gulf
// currency glyphs observed on receipts.
const currencyMarker = `£|\$|€|AED|OMR|KWD|د\.إ|ر\.ع\.|د\.ك`

// decimalNumber matches an optionally comma-grouped number with 2-3
// fractional digits after a dot or comma separator.
const decimalNumber = `[0-9]+(?:,[0-9]{3})*[.,][0-9]{2,3}`

var (
	// Label-anchored totals are tried first, in order; a currency-prefixed
	// amount trailed by the word "total" ranks last among them.
	labeledAmountPatterns = []*regexp.Regexp{
		// \btotal keeps "Subtotal" lines from shadowing the real total.
		regexp.MustCompile(`(?i)\btotal\b\s*:?\s*(` + currencyMarker + `)?\s*(` + decimalNumber + `)`),
		regexp.MustCompile(`(?i)\bamount\b\s*:?\s*(` + currencyMarker + `)?\s*(` + decimalNumber + `)`),
		regexp.MustCompile(`(?i)(` + currencyMarker + `)\s*(` + decimalNumber + `)\s*total`),
	}

	anyAmountPattern  = regexp.MustCompile(`(` + currencyMarker + `)\s*(` + decimalNumber + `)`)
	bareNumberPattern = regexp.MustCompile(decimalNumber)
	arabicGlyphToISO  = map[string]string{"د.إ": "AED", "ر.ع.": "OMR", "د.ك": "KWD"}
	currencySymbolSet = map[string]bool{"£": true, "$": true, "€": true}
)

// Amount scans receipt text for a monetary total and its currency. It never
// fails: without a labeled total it takes any currency-tagged number, then
// the last bare decimal number in the text (totals conventionally follow
// subtotal and tax lines), and finally zero pounds.
func Amount(text string) ExtractedAmount {
	for _, pattern := range labeledAmountPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return ExtractedAmount{
				Currency: normalizeCurrencyToken(m[1]),
				Amount:   parseDecimal(m[2]),
			}
		}
	}

	if m := anyAmountPattern.FindStringSubmatch(text); m != nil {
		return ExtractedAmount{
			Currency: normalizeCurrencyToken(m[1]),
			Amount:   parseDecimal(m[2]),
		}
	}

	if all := bareNumberPattern.FindAllString(text, -1); len(all) > 0 {
		return ExtractedAmount{
			Currency: DefaultCurrency,
			Amount:   parseDecimal(all[len(all)-1]),
		}
	}

	return ExtractedAmount{Currency: DefaultCurrency, Amount: 0}
}

// normalizeCurrencyToken maps Arabic glyphs to ISO codes and upper-cases
// codes matched case-insensitively. An empty token falls back to pounds.
func normalizeCurrencyToken(token string) string {
	if token == "" {
		return DefaultCurrency
	}
	if iso, ok := arabicGlyphToISO[token]; ok {
		return iso
	}
	if currencySymbolSet[token] {
		return token
	}
	return strings.ToUpper(token)
}

// parseDecimal converts a matched number token to a float. Grouping commas
// are stripped; a lone comma with 2-3 trailing digits and no dot is a
// decimal separator and becomes a dot.
func parseDecimal(token string) float64 {
	cleaned := token
	if strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else if i := strings.LastIndex(cleaned, ","); i >= 0 {
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-i-1 <= 3 {
			cleaned = cleaned[:i] + "." + cleaned[i+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
