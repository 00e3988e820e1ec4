// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Iranian mobile number in international form, e.g. +989121234567
	iranianPhoneRegex = regexp.MustCompile(`^\+98[0-9]{10}$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateIranianPhone checks a phone number against the +98xxxxxxxxxx form
// the SMS gateway expects.
func ValidateIranianPhone(phone string) bool {
	return iranianPhoneRegex.MatchString(phone)
}

// NormalizeReceptor converts a phone number to the national form the SMS
// gateway wants as receptor (country code and leading zero stripped).
func NormalizeReceptor(phone string) string {
	switch {
	case strings.HasPrefix(phone, "+98"):
		return phone[3:]
	case strings.HasPrefix(phone, "98"):
		return phone[2:]
	case strings.HasPrefix(phone, "0"):
		return phone[1:]
	}
	return phone
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
