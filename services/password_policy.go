package services

import "unicode"

// Password requirements
const (
	MinPasswordLength = 8
)

// ValidatePassword checks that a password meets the minimum requirements:
// at least 8 characters, with at least one letter and one number.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("La password deve contenere almeno %d caratteri", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return NewValidationError("La password deve contenere almeno una lettera")
	}
	if !hasNumber {
		return NewValidationError("La password deve contenere almeno un numero")
	}
	return nil
}
