// Package validate holds the storefront's field-level validation rules,
// shared by the checkout wizard and the HTTP handlers.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localPhone       = regexp.MustCompile(`^0\d{10}$`)
	intlPhone        = regexp.MustCompile(`^[1-9]\d{9,14}$`)
	digitsOnly       = regexp.MustCompile(`\D`)
	cardDigits       = regexp.MustCompile(`^\d+$`)
	expiryPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern       = regexp.MustCompile(`^\d{3,4}$`)
	zipPH            = regexp.MustCompile(`^\d{4}$`)
	zipUS            = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	zipCA            = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
	zipUK            = regexp.MustCompile(`^([A-Za-z]{1,2}\d[A-Za-z\d]?\s?\d[A-Za-z]{2})$`)
	zipAU            = regexp.MustCompile(`^\d{4}$`)
)

// Required reports whether value is non-empty after trimming
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email validates the standard local@domain.tld shape
func Email(value string) bool {
	return emailPattern.MatchString(value)
}

// Phone accepts an 11-digit locally-formatted number with a leading zero, or
// a 10-15 digit international number without one. Formatting characters are
// stripped before matching.
func Phone(value string) bool {
	digits := digitsOnly.ReplaceAllString(value, "")
	if localPhone.MatchString(digits) {
		return true
	}
	return intlPhone.MatchString(digits)
}

// PostalCode validates a ZIP/postal code for the selected country, with a
// generic length fallback for unlisted countries
func PostalCode(value, country string) bool {
	value = strings.TrimSpace(value)
	switch country {
	case "PH":
		return zipPH.MatchString(value)
	case "US":
		return zipUS.MatchString(value)
	case "CA":
		return zipCA.MatchString(value)
	case "UK":
		return zipUK.MatchString(value)
	case "AU":
		return zipAU.MatchString(value)
	default:
		return len(value) >= 4
	}
}

// CardNumber checks for 13-19 digits after stripping whitespace. Digit-count
// only; no checksum.
func CardNumber(value string) bool {
	clean := strings.ReplaceAll(value, " ", "")
	return len(clean) >= 13 && len(clean) <= 19 && cardDigits.MatchString(clean)
}

// Expiry validates an MM/YY expiry that is not strictly before the current
// month. now allows the reference time to be pinned in tests.
func Expiry(value string, now time.Time) bool {
	if !expiryPattern.MatchString(value) {
		return false
	}

	parts := strings.SplitN(value, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear || (year == currentYear && month < currentMonth) {
		return false
	}
	return true
}

// CVV validates a 3-4 digit card verification value
func CVV(value string) bool {
	return cvvPattern.MatchString(value)
}
