package validator

import (
	"fmt"
	"regexp"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	maxUserIDLength   = 128
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt         = "email cannot be empty"
	errEmailLengthFmt        = "email must be between %d and %d characters"
	errEmailInvalidFmt       = "invalid email format"
	errUserIDEmptyFmt        = "user id cannot be empty"
	errUserIDMaxLengthFmt    = "user id must not exceed %d characters"
	errUserIDControlCharsFmt = "user id cannot contain control characters"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// UserID checks an identity-provider user ID before it is put in a token.
func UserID(id string) error {
	if id == "" {
		return fmt.Errorf(errUserIDEmptyFmt)
	}

	if len(id) > maxUserIDLength {
		return fmt.Errorf(errUserIDMaxLengthFmt, maxUserIDLength)
	}

	for _, char := range id {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errUserIDControlCharsFmt)
		}
	}

	return nil
}
