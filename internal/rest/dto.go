package rest

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type signUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r signUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 256), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 64)),
	)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 256), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 64)),
	)
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 64)),
	)
}

type accountResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
