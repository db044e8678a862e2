package api

import (
	"context"
	"strings"
)

// LoginArgs are the password login credentials.
type LoginArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the flat login response; it does not use the data envelope.
type LoginResult struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
	Message  string `json:"message,omitempty"`
}

// Login exchanges credentials for a bearer token and establishes the session.
func (c *Client) Login(ctx context.Context, args LoginArgs) (*LoginResult, error) {
	if strings.TrimSpace(args.Email) == "" || args.Password == "" {
		return nil, &ValidationError{Message: "email and password are required"}
	}
	result, err := postJSONRaw[*LoginResult](ctx, c, routeLogin, args)
	if err != nil {
		return nil, err
	}
	if result == nil || !result.Success {
		msg := "login failed"
		if result != nil && result.Message != "" {
			msg = result.Message
		}
		return nil, &ValidationError{Message: msg}
	}
	if err := c.sess.Establish(result.Token, result.Username, result.UserID); err != nil {
		return nil, &UnauthorizedError{Message: err.Error()}
	}
	return result, nil
}

// Logout tears the session down locally. There is no server-side revocation
// endpoint; the token simply ages out.
func (c *Client) Logout() {
	c.sess.Clear()
}
