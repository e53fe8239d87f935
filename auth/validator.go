package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SignupRequest is the payload required to create an account. DisplayName
// and DOB are optional; an absent display name falls back to the username.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=32,excludesall=@"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayname" validate:"max=64"`
	DOB         string `json:"dob"`
}

// ValidateSignup checks field-level rules before any hashing happens.
func ValidateSignup(req SignupRequest) error {
	return validate.Struct(req)
}
