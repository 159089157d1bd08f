// Package validation provides pure request-field validators. Every
// validator returns the full list of field failures so handlers can
// reject with a single 400 before touching the store.
package validation

import (
	"regexp"
	"unicode"

	"tessera/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// passwordSpecials matches the symbol class required in passwords.
var passwordSpecials = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)

const (
	usernameMinLen = 8
	usernameMaxLen = 20
	passwordMinLen = 8
	bioMaxLen      = 500
)

// ValidateRegistration checks the register-user request body.
func ValidateRegistration(username, password, profileBio string) []models.FieldError {
	var errs []models.FieldError
	errs = append(errs, ValidateUsername(username)...)
	errs = append(errs, ValidatePassword(password)...)
	errs = append(errs, ValidateProfileBio(profileBio)...)
	return errs
}

// ValidateUsername enforces the fixed length range and character class.
func ValidateUsername(username string) []models.FieldError {
	var errs []models.FieldError
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		errs = append(errs, models.FieldError{
			Field:   "username",
			Message: "Username must be between 8 and 20 characters",
		})
	}
	if !usernameRegex.MatchString(username) {
		errs = append(errs, models.FieldError{
			Field:   "username",
			Message: "Username can only contain letters and numbers",
		})
	}
	return errs
}

// ValidatePassword enforces minimum length and the four character classes.
func ValidatePassword(password string) []models.FieldError {
	var errs []models.FieldError
	if len(password) < passwordMinLen {
		errs = append(errs, models.FieldError{
			Field:   "password",
			Message: "Password must be at least 8 characters long",
		})
	}

	hasLower, hasUpper, hasDigit := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !passwordSpecials.MatchString(password) {
		errs = append(errs, models.FieldError{
			Field:   "password",
			Message: "Password must contain at least one lowercase letter, one uppercase letter, one number, and one special character",
		})
	}
	return errs
}

// ValidateProfileBio bounds the profile bio length.
func ValidateProfileBio(bio string) []models.FieldError {
	if len(bio) > bioMaxLen {
		return []models.FieldError{{
			Field:   "profile_bio",
			Message: "Bio cannot be more than 500 characters",
		}}
	}
	return nil
}

// ValidateCredentials checks the login request body for presence only;
// correctness is decided against the store.
func ValidateCredentials(username, password string) []models.FieldError {
	var errs []models.FieldError
	if username == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: "Username cannot be empty"})
	}
	if password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "Password cannot be empty"})
	}
	return errs
}
