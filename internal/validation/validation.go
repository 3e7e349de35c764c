// Package validation holds the storefront's field validators. Every
// validator is a pure predicate over one field value that reports a fixed
// message on failure.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrValidation is the target for errors.Is on any *FieldError.
var ErrValidation = errors.New("validation failed")

// Failure messages.
const (
	MsgPassword   = "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character (@$!%*?&)"
	MsgPhone      = "Please enter a valid phone number (10-15 digits, optional leading +)"
	MsgStreet     = "Please enter a valid street address"
	MsgCity       = "Please enter a valid city name"
	MsgState      = "Please enter a valid 2-letter state abbreviation"
	MsgZipcode    = "Please enter a valid 5-digit zipcode"
	MsgCountry    = "Please enter a valid country name"
	MsgAddress    = `Please enter address in format: "123 Main St, New York, NY, USA"`
	MsgCreditCard = "Please enter a valid 16-digit credit card number"
)

// FieldError reports which field failed and why.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

var (
	passwordChars = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	hasLower      = regexp.MustCompile(`[a-z]`)
	hasUpper      = regexp.MustCompile(`[A-Z]`)
	hasDigit      = regexp.MustCompile(`\d`)
	hasSymbol     = regexp.MustCompile(`[@$!%*?&]`)

	phonePattern   = regexp.MustCompile(`^\+?\d{10,15}$`)
	streetPattern  = regexp.MustCompile(`^[A-Za-z0-9\s,.'-]{5,}$`)
	cityPattern    = regexp.MustCompile(`^[A-Za-z\s-]{2,}$`)
	statePattern   = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipcodePattern = regexp.MustCompile(`^\d{5}$`)
	countryPattern = regexp.MustCompile(`^[A-Za-z\s-]{4,}$`)

	// "number street, city, state, country"
	addressPattern = regexp.MustCompile(`^\d+\s+[A-Za-z\s]+,\s*[A-Za-z\s]+,\s*[A-Za-z]{2},\s*[A-Za-z\s]+$`)
	cardSeparators = regexp.MustCompile(`[\s-]`)
	cardPattern    = regexp.MustCompile(`^\d{16}$`)
)

func check(field, msg string, ok bool) *FieldError {
	if ok {
		return nil
	}
	return &FieldError{Field: field, Message: msg}
}

func Password(v string) *FieldError {
	ok := passwordChars.MatchString(v) &&
		hasLower.MatchString(v) &&
		hasUpper.MatchString(v) &&
		hasDigit.MatchString(v) &&
		hasSymbol.MatchString(v)
	return check("password", MsgPassword, ok)
}

func Phone(v string) *FieldError {
	return check("phoneNo", MsgPhone, phonePattern.MatchString(v))
}

func Street(v string) *FieldError {
	return check("street", MsgStreet, streetPattern.MatchString(v))
}

func City(v string) *FieldError {
	return check("city", MsgCity, cityPattern.MatchString(v))
}

func State(v string) *FieldError {
	return check("state", MsgState, statePattern.MatchString(v))
}

func Zipcode(v string) *FieldError {
	return check("zipcode", MsgZipcode, zipcodePattern.MatchString(v))
}

func Country(v string) *FieldError {
	return check("country", MsgCountry, countryPattern.MatchString(v))
}

// Address checks the single-line checkout address, e.g.
// "123 Main St, New York, NY, USA".
func Address(v string) *FieldError {
	return check("address", MsgAddress, addressPattern.MatchString(v))
}

// CreditCard accepts exactly 16 digits once spaces and dashes are removed.
func CreditCard(v string) *FieldError {
	cleaned := cardSeparators.ReplaceAllString(v, "")
	return check("creditCard", MsgCreditCard, cardPattern.MatchString(cleaned))
}

// NormalizeCard strips the separators CreditCard tolerates.
func NormalizeCard(v string) string {
	return cardSeparators.ReplaceAllString(strings.TrimSpace(v), "")
}
