package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidUsername     = errors.New("invalid username")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrInvalidNetwork      = errors.New("invalid network")
	ErrInvalidReferralCode = errors.New("invalid referral code")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^\+234\d{10}$`)
	refCodeRegex  = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

var networks = map[string]struct{}{
	"MTN":     {},
	"Glo":     {},
	"Airtel":  {},
	"9mobile": {},
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidatePhone accepts Nigerian numbers in international format: +234
// followed by ten digits.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateNetwork(network string) error {
	if _, ok := networks[network]; !ok {
		return ErrInvalidNetwork
	}
	return nil
}

func ValidateReferralCode(code string) error {
	if !refCodeRegex.MatchString(code) {
		return ErrInvalidReferralCode
	}
	return nil
}
