package auth

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	reLower  = regexp.MustCompile(`[a-z]`)
	reUpper  = regexp.MustCompile(`[A-Z]`)
	reDigit  = regexp.MustCompile(`\d`)
	reSymbol = regexp.MustCompile(`[#$^+=!*()@%&]`)
)

// LoginRequest is the login payload. Ephemeral, never persisted.
type LoginRequest struct {
	UserName string `form:"userName" json:"userName"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserName,
			validation.Required.Error("Username is required"),
			validation.Length(3, 20),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Password is required"),
		),
	)
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	UserName string `form:"userName" json:"userName"`
	Password string `form:"password" json:"password"`
	Email    string `form:"email" json:"email"`
}

// Validate enforces the composition policy before any store interaction:
// username 3..20, well-formed email, password of at least 8 characters with
// one lower, one upper, one digit, and one symbol from #$^+=!*()@%&.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserName,
			validation.Required.Error("Username is required"),
			validation.Length(3, 20),
		),
		validation.Field(
			&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("This email is incorrect"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(8, 0).Error("Minimum 8 characters"),
			validation.Match(reLower).Error("Should have at least one lower case"),
			validation.Match(reUpper).Error("Should have at least one upper case"),
			validation.Match(reDigit).Error("Should have at least one number"),
			validation.Match(reSymbol).Error("Should have at least one special character"),
		),
	)
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map for JSON error payloads.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
