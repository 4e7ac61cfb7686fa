// Package validator holds the pure field rules shared by the report form,
// the signup form and the login form. Messages are user-facing.
package validator

import (
	"regexp"
	"strings"
)

// Field names understood by Field.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldContact     = "contact"
	FieldCategory    = "category"
	FieldImage       = "image"
	FieldFirstname   = "firstname"
	FieldLastname    = "lastname"
	FieldUsername    = "username"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

const (
	MsgRequired         = "This field is required"
	MsgNameShort        = "Item name must be at least 3 characters"
	MsgDescriptionShort = "Description must be at least 10 characters"
	MsgContactInvalid   = "Enter a valid email"
	MsgCategoryInvalid  = "Category must be lost or found"
	MsgImageType        = "Only image files allowed"
	MsgPersonNameShort  = "Minimum 3 characters required"
	MsgUsernameRequired = "Username is required"
	MsgUsernameInvalid  = "Username must be at least 6 characters"
	MsgPhoneRequired    = "Phone number is required"
	MsgPhoneInvalid     = "Phone number must be 10 digits"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Enter a valid email address"
	MsgPasswordRequired = "Password is required"
	MsgPasswordInvalid  = "Password must be exactly 8 characters with letters, numbers & symbol"
)

// PasswordSymbols is the only set of symbols a password may contain.
const PasswordSymbols = "@$!%*#?&"

var (
	// Deliberately permissive: a@b.c passes, a@b does not. Unanchored.
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{6,}$`)
	phoneRe    = regexp.MustCompile(`^[0-9]{10}$`)
)

// Sanitize strips angle brackets. It is not HTML escaping.
func Sanitize(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

// IsEmail applies the permissive "x@y.z" check.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsUsername reports whether s is alphanumeric and at least 6 long.
func IsUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsPhone reports whether s is exactly ten digits.
func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsPassword enforces the fixed-width policy: exactly 8 characters from
// letters, digits and PasswordSymbols, with at least one of each.
func IsPassword(s string) bool {
	if len(s) != 8 {
		return false
	}
	var letter, digit, symbol bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.IndexByte(PasswordSymbols, c) >= 0:
			symbol = true
		default:
			return false
		}
	}
	return letter && digit && symbol
}

// Field validates one raw value and returns its error message, or "" when
// the value is acceptable. Unknown fields are only checked for presence.
func Field(name, raw string) string {
	val := strings.TrimSpace(raw)

	switch name {
	case FieldUsername:
		if val == "" {
			return MsgUsernameRequired
		}
		if !IsUsername(raw) {
			return MsgUsernameInvalid
		}
		return ""
	case FieldPhone:
		if val == "" {
			return MsgPhoneRequired
		}
		if !IsPhone(raw) {
			return MsgPhoneInvalid
		}
		return ""
	case FieldEmail:
		if val == "" {
			return MsgEmailRequired
		}
		if !IsEmail(raw) {
			return MsgEmailInvalid
		}
		return ""
	case FieldPassword:
		if val == "" {
			return MsgPasswordRequired
		}
		if !IsPassword(raw) {
			return MsgPasswordInvalid
		}
		return ""
	}

	if val == "" {
		return MsgRequired
	}
	switch name {
	case FieldName:
		if len([]rune(val)) < 3 {
			return MsgNameShort
		}
	case FieldDescription:
		if len([]rune(val)) < 10 {
			return MsgDescriptionShort
		}
	case FieldContact:
		if !IsEmail(val) {
			return MsgContactInvalid
		}
	case FieldCategory:
		if val != "lost" && val != "found" {
			return MsgCategoryInvalid
		}
	case FieldFirstname, FieldLastname:
		if len([]rune(val)) < 3 {
			return MsgPersonNameShort
		}
	}
	return ""
}
