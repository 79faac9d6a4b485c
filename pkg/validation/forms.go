// Package validation checks auth form input before anything is dispatched.
// Failures are field-level messages for inline display; they never reach the
// auth state.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MinLoginPassword    = 6
	MinRegisterPassword = 8
	MinNameLength       = 2

	hasUpperPattern   = regexp.MustCompile(`[A-Z]`)
	hasLowerPattern   = regexp.MustCompile(`[a-z]`)
	hasNumericPattern = regexp.MustCompile(`[0-9]`)
)

func init() {
	validate = validator.New()
}

// FieldErrors maps form field names to user-facing messages.
type FieldErrors map[string]string

// Valid reports whether the form passed validation.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// LoginForm is the login form input.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterForm is the registration form input.
type RegisterForm struct {
	FirstName       string `validate:"required,min=2"`
	LastName        string `validate:"required,min=2"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required"`
}

// ForgotPasswordForm is the password-reset form input.
type ForgotPasswordForm struct {
	Email string `validate:"required,email"`
}

// ValidateLoginForm validates the login form.
func ValidateLoginForm(form LoginForm) FieldErrors {
	return collectFieldErrors(validate.Struct(form))
}

// ValidateRegisterForm validates the registration form, including password
// strength and the password/confirmation match.
func ValidateRegisterForm(form RegisterForm) FieldErrors {
	errs := collectFieldErrors(validate.Struct(form))

	// Strength only matters once the basic checks pass.
	if _, bad := errs["Password"]; !bad && !strongPassword(form.Password) {
		errs["Password"] = "Password must contain upper case, lower case and a number"
	}
	if _, bad := errs["ConfirmPassword"]; !bad && form.ConfirmPassword != form.Password {
		errs["ConfirmPassword"] = "Passwords do not match"
	}
	return errs
}

// ValidateForgotPasswordForm validates the password-reset form.
func ValidateForgotPasswordForm(form ForgotPasswordForm) FieldErrors {
	return collectFieldErrors(validate.Struct(form))
}

func strongPassword(password string) bool {
	return hasUpperPattern.MatchString(password) &&
		hasLowerPattern.MatchString(password) &&
		hasNumericPattern.MatchString(password)
}

// collectFieldErrors converts validator errors to per-field user-facing
// messages.
func collectFieldErrors(err error) FieldErrors {
	errs := FieldErrors{}
	if err == nil {
		return errs
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}

	for _, e := range validationErrs {
		field := e.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		switch e.Tag() {
		case "required":
			errs[field] = fieldLabel(field) + " is required"
		case "email":
			errs[field] = "Enter a valid email address"
		case "min":
			errs[field] = fieldLabel(field) + " must be at least " + e.Param() + " characters"
		default:
			errs[field] = fieldLabel(field) + " is invalid"
		}
	}
	return errs
}

func fieldLabel(field string) string {
	switch field {
	case "FirstName":
		return "First name"
	case "LastName":
		return "Last name"
	case "ConfirmPassword":
		return "Password confirmation"
	default:
		return field
	}
}
