package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// The login endpoint answers with a token object rather than echoing the
// credentials, so the login resource substitutes the token schema.
var (
	tokenSchema = resource.NewSchema("session-token")
	tokenBearer = resource.Declare(tokenSchema, "bearerToken", resource.String)

	loginSchema = resource.NewSchema("session-login",
		resource.URI("/v1/session/login"),
		resource.ResultAs(tokenSchema),
	)
	loginUsername = resource.Declare(loginSchema, "username", resource.String)
	loginPassword = resource.Declare(loginSchema, "password", resource.String)
)

// Login exchanges credentials for a bearer token and stores it on the
// client. A rejected login fails with ErrAuthentication.
func (c *Client) Login(ctx context.Context, username, password string) error {
	login := resource.New(loginSchema, nil)
	if err := loginUsername.Set(login, username); err != nil {
		return err
	}
	if err := loginPassword.Set(login, password); err != nil {
		return err
	}

	out, err := login.Post(ctx, c, resource.WithoutAuth(), resource.WithLogger(c.logger))
	if err != nil {
		var rerr *resource.RequestFailedError
		if errors.As(err, &rerr) {
			c.logger.Warn("login rejected", "username", username, "status", rerr.StatusCode())
			return &resource.Error{
				Op:  "Login",
				Err: fmt.Errorf("%w: %w", resource.ErrAuthentication, err),
			}
		}
		return fmt.Errorf("login: %w", err)
	}

	token, err := tokenBearer.Get(out)
	if err != nil {
		return &resource.Error{Op: "Login", Err: fmt.Errorf("%w: %w", resource.ErrAuthentication, err)}
	}
	if token == "" {
		return &resource.Error{Op: "Login", Err: resource.ErrAuthentication, Msg: "response carried no bearer token"}
	}

	c.SetBearerToken(token)
	c.logger.Info("logged in", "username", username)
	return nil
}

// Authenticate logs in with the configured username and password.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.cfg.Username == "" {
		return &resource.Error{Op: "Authenticate", Err: resource.ErrConfig, Msg: "no username configured"}
	}
	return c.Login(ctx, c.cfg.Username, c.cfg.Password)
}

// Logout forgets the session token.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// SetBearerToken installs a token obtained elsewhere.
func (c *Client) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// BearerToken implements resource.TokenSource.
func (c *Client) BearerToken() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", &resource.Error{Op: "BearerToken", Err: resource.ErrLoginRequired, Msg: "no session established"}
	}
	return c.token, nil
}

// LoggedIn reports whether a session token is held.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}
