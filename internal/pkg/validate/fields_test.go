package validate

import (
	"testing"
	"time"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"valid address", "a@b.com", true},
		{"subdomain", "user@mail.example.co", true},
		{"missing tld", "a@b", false},
		{"missing local part", "@b.com", false},
		{"missing at", "ab.com", false},
		{"whitespace", "a b@c.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Email(tt.value); got != tt.want {
				t.Errorf("Email(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"local 11 digits leading zero", "09171234567", true},
		{"local with separators", "0917-123-4567", true},
		{"international 10 digits", "9171234567", true},
		{"international 15 digits", "123456789012345", true},
		{"international with plus", "+63 917 123 4567", true},
		{"too short", "12345", false},
		{"international 16 digits", "1234567890123456", false},
		{"leading zero wrong length", "0917123456", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.value); got != tt.want {
				t.Errorf("Phone(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestPostalCode(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		country string
		want    bool
	}{
		{"PH four digits", "2010", "PH", true},
		{"PH five digits", "20105", "PH", false},
		{"US five digits", "90210", "US", true},
		{"US zip plus four", "90210-1234", "US", true},
		{"US letters", "9021A", "US", false},
		{"CA spaced", "K1A 0B1", "CA", true},
		{"CA hyphenated", "K1A-0B1", "CA", true},
		{"CA compact", "K1A0B1", "CA", true},
		{"CA invalid", "11111", "CA", false},
		{"UK postcode", "SW1A 1AA", "UK", true},
		{"UK short form", "M1 1AE", "UK", true},
		{"UK invalid", "12345", "UK", false},
		{"AU four digits", "2000", "AU", true},
		{"unknown country long enough", "ABC-123", "DE", true},
		{"unknown country too short", "abc", "DE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PostalCode(tt.value, tt.country); got != tt.want {
				t.Errorf("PostalCode(%q, %q) = %v, want %v", tt.value, tt.country, got, tt.want)
			}
		})
	}
}

func TestCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"16 digits spaced", "4242 4242 4242 4242", true},
		{"13 digits", "4242424242424", true},
		{"19 digits", "4242424242424242424", true},
		{"12 digits", "424242424242", false},
		{"20 digits", "42424242424242424242", false},
		{"letters", "4242 4242 4242 424a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardNumber(tt.value); got != tt.want {
				t.Errorf("CardNumber(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"current month", "06/26", true},
		{"future month same year", "12/26", true},
		{"future year", "01/30", true},
		{"previous month", "05/26", false},
		{"previous year", "12/25", false},
		{"month 13", "13/27", false},
		{"month zero", "00/27", false},
		{"wrong shape", "6/26", false},
		{"four digit year", "06/2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expiry(tt.value, now); got != tt.want {
				t.Errorf("Expiry(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCVV(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"123", true},
		{"1234", true},
		{"12", false},
		{"12345", false},
		{"12a", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := CVV(tt.value); got != tt.want {
			t.Errorf("CVV(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
