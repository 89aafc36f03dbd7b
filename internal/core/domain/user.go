package domain

import "time"

// AnonymousUsername is recorded on audit rows for requests without an identity.
const AnonymousUsername = "Anonymous"

// User models a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined"`
}

// Profile is the public projection returned by signup and login.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u *User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// SignupInput carries already shape-validated signup fields.
type SignupInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
}

// TokenPair is an access/refresh JWT pair issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User   *User
	Tokens TokenPair
}
