// Package pin enforces the payment passcode policy and hashes accepted PINs.
package pin

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Code identifies which policy rule a candidate PIN violated.
type Code string

const (
	CodeInvalidFormat    Code = "invalid_format"
	CodeRepeatingDigits  Code = "repeating_digits"
	CodeSequentialDigits Code = "sequential_digits"
)

// ValidationError reports a rejected PIN. It never carries the PIN itself.
type ValidationError struct {
	Code Code
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeInvalidFormat:
		return "PIN must be exactly 4 digits"
	case CodeRepeatingDigits:
		return "PIN must not repeat a digit 3 or more times in a row"
	case CodeSequentialDigits:
		return "PIN must not be a sequential run of digits"
	default:
		return fmt.Sprintf("PIN rejected (%s)", e.Code)
	}
}

const pinLength = 4

// Validate checks a candidate payment PIN against the passcode policy and
// returns nil when it is acceptable. Rules are applied in order: format,
// repeated digits (3+ identical in a row), full ascending run, full
// descending run. The first violation wins.
func Validate(pin string) error {
	if len(pin) != pinLength {
		return &ValidationError{Code: CodeInvalidFormat}
	}
	for i := 0; i < pinLength; i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return &ValidationError{Code: CodeInvalidFormat}
		}
	}

	for i := 0; i+2 < pinLength; i++ {
		if pin[i] == pin[i+1] && pin[i+1] == pin[i+2] {
			return &ValidationError{Code: CodeRepeatingDigits}
		}
	}

	if isRun(pin, 1) || isRun(pin, -1) {
		return &ValidationError{Code: CodeSequentialDigits}
	}

	return nil
}

// isRun reports whether every digit steps by delta from the previous one.
func isRun(pin string, delta int) bool {
	for i := 1; i < len(pin); i++ {
		if int(pin[i])-int(pin[i-1]) != delta {
			return false
		}
	}
	return true
}

// Hash derives a bcrypt hash for an accepted PIN. The salt is embedded in the
// returned hash.
func Hash(pin string) ([]byte, error) {
	if err := Validate(pin); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash PIN: %w", err)
	}
	return hash, nil
}

// Verify compares a stored hash against a candidate PIN.
func Verify(hash []byte, pin string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(pin)); err != nil {
		return fmt.Errorf("PIN mismatch: %w", err)
	}
	return nil
}
