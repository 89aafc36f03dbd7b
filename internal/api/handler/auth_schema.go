package handler

import "github.com/99minutos/users-api/internal/core/domain"

// Request fields are pointers so a missing key ("required") can be told apart
// from an empty one ("blank").

type signupRequest struct {
	Email                *string `json:"email" validate:"required,notblank,email"`
	Username             *string `json:"username" validate:"required,notblank,min=4,max=20"`
	Password             *string `json:"password" validate:"required,notblank,min=8,max=30"`
	PasswordConfirmation *string `json:"password_confirmation" validate:"required,notblank,min=8,max=30"`
	FirstName            *string `json:"first_name" validate:"required,notblank,min=2,max=30"`
	LastName             *string `json:"last_name" validate:"required,notblank,min=2,max=30"`
}

func (r *signupRequest) normalize() {
	trim(r.Email, r.Username, r.Password, r.PasswordConfirmation, r.FirstName, r.LastName)
}

func (r *signupRequest) toInput() domain.SignupInput {
	return domain.SignupInput{
		Username:             deref(r.Username),
		Email:                deref(r.Email),
		Password:             deref(r.Password),
		PasswordConfirmation: deref(r.PasswordConfirmation),
		FirstName:            deref(r.FirstName),
		LastName:             deref(r.LastName),
	}
}

type loginRequest struct {
	Username *string `json:"username" validate:"required,notblank,min=4,max=20"`
	Password *string `json:"password" validate:"required,notblank,min=8,max=30"`
}

func (r *loginRequest) normalize() {
	trim(r.Username, r.Password)
}

type refreshRequest struct {
	Refresh *string `json:"refresh" validate:"required,notblank"`
}

func (r *refreshRequest) normalize() {
	trim(r.Refresh)
}

type loginResponse struct {
	User    domain.Profile `json:"user"`
	Access  string         `json:"access"`
	Refresh string         `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type logoutResponse struct {
	Success string `json:"success"`
}

type differenceResponse struct {
	Difference string `json:"difference"`
}
