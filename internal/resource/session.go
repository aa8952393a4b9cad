package resource

import (
	"context"
	"net/http"
)

// Credentials is the login/signup payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the data returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// Login exchanges credentials for a bearer token. Storing the token is the
// caller's job; the client never writes to the credential store.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var result LoginResult
	fields := Fields{{Name: "email", Value: creds.Email}, {Name: "password", Value: creds.Password}}
	_, err := c.Do(ctx, Call{Method: http.MethodPost, Path: pathLogin, Access: AccessPublic, Fields: fields}, &result, true)
	return result, err
}

// Signup registers an admin account and returns the backend's message.
func (c *Client) Signup(ctx context.Context, creds Credentials) (string, error) {
	fields := Fields{{Name: "email", Value: creds.Email}, {Name: "password", Value: creds.Password}}
	env, err := c.Do(ctx, Call{Method: http.MethodPost, Path: pathSignup, Access: AccessPublic, Fields: fields}, nil, false)
	return env.Message, err
}
