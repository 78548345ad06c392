package backend

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CedulaDigits strips every non-digit from a cedula and reports whether the
// result has the required 8 to 10 digits.
func CedulaDigits(cedula string) (string, bool) {
	var b strings.Builder
	for _, r := range cedula {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	return digits, len(digits) >= 8 && len(digits) <= 10
}

// DeriveUsername builds a login name from the person's first given-name token
// and the initial of the first surname: lowercased, accents stripped, padded
// with the last two cedula digits when shorter than four characters. An empty
// cleaned name falls back to "user" plus the last four cedula digits. The
// transform is deterministic.
func DeriveUsername(firstName, lastName, cedulaDigits string) string {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return "user" + lastDigits(cedulaDigits, 4)
	}

	firstToken := strings.Fields(firstName)[0]
	cleanFirst := cleanNameToken(firstToken)
	cleanInitial := ""
	if r := []rune(lastName); len(r) > 0 {
		cleanInitial = cleanNameToken(string(r[0]))
	}

	if cleanFirst == "" {
		return "user" + lastDigits(cedulaDigits, 4)
	}

	username := cleanFirst + cleanInitial
	if len(username) < 4 {
		username += lastDigits(cedulaDigits, 2)
	}
	return username
}

// cleanNameToken lowercases, decomposes accented characters and drops
// everything outside [a-z0-9].
func cleanNameToken(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}

	var b strings.Builder
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastDigits(digits string, n int) string {
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
