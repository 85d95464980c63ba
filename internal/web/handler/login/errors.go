// Package login provides the account endpoints of the api: registration, login
// and the session lookup.
//
// This file defines the messages answered by the login flow.
package login

const (
	// MsgInvalidCredentials is answered when the username or password don't match.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgTooManyAttempts is answered while a username is locked out.
	MsgTooManyAttempts = "Too many login attempts. Please try again later."

	// MsgInternalServerError is answered for unexpected failures during login.
	MsgInternalServerError = "Internal server error"

	// MsgEmailRegistered is answered when the email of a registration is taken.
	MsgEmailRegistered = "Email already registered"

	// MsgRegistered is answered after a successful registration.
	MsgRegistered = "Registration successful"
)
