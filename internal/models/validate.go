package models

import (
	"fmt"
	"regexp"
	"unicode"
)

// The email doubles as a key segment in the store, so besides the
// mailbox@domain.tld shape it must not contain "/", the key separator.
var emailPattern = regexp.MustCompile(`^[^@\s/]+@[^@\s/]+\.[^@\s/]+$`)

const minNameLength = 3

// ValidateEmail checks the address has a plausible mailbox@domain.tld
// shape and is safe to embed in a key. Full RFC parsing is
// deliberately out of scope.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email %q is not a valid address", email)
	}
	return nil
}

// ValidateName requires a display name of at least three characters.
func ValidateName(name string) error {
	if len([]rune(name)) < minNameLength {
		return fmt.Errorf("name must be at least %d characters long", minNameLength)
	}
	return nil
}

// ValidatePassword requires at least 8 characters covering upper case,
// lower case, digit and symbol classes.
func ValidatePassword(password string) error {
	runes := []rune(password)

	if len(runes) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain an upper-case letter")
	case !hasLower:
		return fmt.Errorf("password must contain a lower-case letter")
	case !hasDigit:
		return fmt.Errorf("password must contain a digit")
	case !hasSymbol:
		return fmt.Errorf("password must contain a symbol")
	}

	return nil
}
