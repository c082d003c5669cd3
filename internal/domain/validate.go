package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	phoneRe     = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	sessionIDRe = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	ussdTextRe  = regexp.MustCompile(`[^0-9*]`)
)

// MaxTextLen bounds the cumulative USSD input accepted from the transport.
const MaxTextLen = 50

// ValidatePhone checks E.164 format: +[country code][subscriber number].
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if len(phone) < 8 {
		return fmt.Errorf("phone number too short")
	}
	if len(phone) > 16 {
		return fmt.Errorf("phone number too long")
	}
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("invalid phone format, use E.164 (e.g. +260975190740)")
	}
	return nil
}

// ValidateSessionID accepts 4..128 chars of [a-zA-Z0-9_.-].
func ValidateSessionID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if len(id) < 4 {
		return fmt.Errorf("session id too short")
	}
	if len(id) > 128 {
		return fmt.Errorf("session id too long")
	}
	if !sessionIDRe.MatchString(id) {
		return fmt.Errorf("session id contains invalid characters")
	}
	return nil
}

// SanitizeText strips everything except digits and the menu separator and
// bounds the length. USSD input never legitimately contains anything else.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > MaxTextLen {
		text = text[:MaxTextLen]
	}
	return ussdTextRe.ReplaceAllString(text, "")
}
