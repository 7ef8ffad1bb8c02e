package parse

import (
	"strings"
	"unicode"
)

// boilerplateKeywords flag receipt-structure lines (headers, tax blocks,
// till metadata) that can never be the merchant name.
var boilerplateKeywords = []string{
	"receipt", "invoice", "tax", "vat", "till", "terminal", "transaction",
}

// Provider picks the most plausible merchant name line from receipt text:
// the first trimmed, non-empty line that is not boilerplate, is longer than
// two characters, contains at least one letter and is not purely numeric.
// Returns the empty string when no line qualifies.
func Provider(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		if len(line) > 2 && hasLetter(line) && !allDigits(line) {
			return line
		}
	}
	return ""
}

func isBoilerplate(line string) bool {
	lowered := strings.ToLower(line)
	for _, kw := range boilerplateKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
