package api

import (
	"context"
	"net/http"

	"eadmin/internal/models"
)

// SignIn exchanges credentials for a bearer token. The token is not stored.
func (c *Client) SignIn(ctx context.Context, req SignInRequest) (string, error) {
	if err := c.checkRequest(req); err != nil {
		return "", err
	}

	var resp SignInResponse
	err := c.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/auth/sign-in",
		path:     "/auth/sign-in",
		body:     req,
		public:   true,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CurrentUser returns the user the session token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.query(ctx, call{endpoint: "/users/me", path: "/users/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
