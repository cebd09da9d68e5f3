// Package identity is the HTTP client for the remote identity service. The
// service is a black box speaking JSON over HTTPS with a
// {finalizado, mensaje, datos} envelope and Spanish wire names; this package
// owns the route set and the error taxonomy, nothing more.
package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gestion-consola/session/profile"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

const name = "github.com/gestion-consola/session/identity"

// Client calls the identity service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "url.Parse()")
	}

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Auth exchanges credentials for a token, profile and role list.
func (c *Client) Auth(ctx context.Context, username, password string) (*profile.User, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Auth()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/auth",
		Body: authRequest{
			Username: username,
			Password: encodePassword(password),
		},
	})
	if err != nil {
		return nil, err
	}

	payload := sessionPayload{}
	if err := res.DecodeData(&payload); err != nil {
		return nil, err
	}

	return payload.user(), nil
}

// Profile returns the full profile for the bearer of token. Used for the
// boot-time restore and after profile-mutating actions.
func (c *Client) Profile(ctx context.Context, tok string) (*profile.User, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Profile()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   "/usuarios/cuenta/perfil",
		Token:  tok,
	})
	if err != nil {
		return nil, err
	}

	payload := sessionPayload{}
	if err := res.DecodeData(&payload); err != nil {
		return nil, err
	}

	return payload.user(), nil
}

// ChangeRole re-scopes the session to roleID. The service re-issues a token
// scoped to the new role.
func (c *Client) ChangeRole(ctx context.Context, tok, roleID string) (*profile.User, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.ChangeRole()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   "/cambiarRol",
		Token:  tok,
		Body:   changeRoleRequest{RoleID: roleID},
	})
	if err != nil {
		return nil, err
	}

	payload := sessionPayload{}
	if err := res.DecodeData(&payload); err != nil {
		return nil, err
	}

	user := payload.user()
	user.ActiveRoleID = roleID

	return user, nil
}

// RefreshToken exchanges a stale token for a renewed one.
func (c *Client) RefreshToken(ctx context.Context, tok string) (string, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.RefreshToken()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/token",
		Body:   refreshRequest{Token: tok},
	})
	if err != nil {
		return "", err
	}

	payload := refreshPayload{}
	if err := res.DecodeData(&payload); err != nil {
		return "", err
	}

	return payload.AccessToken, nil
}

// Permissions returns the flat policy tuple list for the bearer of token.
func (c *Client) Permissions(ctx context.Context, tok string) ([][]string, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Permissions()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   "/autorizacion/permisos",
		Token:  tok,
	})
	if err != nil {
		return nil, err
	}

	tuples := [][]string{}
	if err := res.DecodeData(&tuples); err != nil {
		return nil, err
	}

	return tuples, nil
}

// Logout invalidates the session server-side. The returned URL, when present,
// is the federated end-session endpoint the caller must visit to complete a
// Ciudadanía Digital logout.
func (c *Client) Logout(ctx context.Context, tok string) (string, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Logout()")
	defer span.End()

	res, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   "/logout",
		Token:  tok,
	})
	if err != nil {
		return "", err
	}

	redirect := logoutResponse{}
	// the body is optional and free-form on logout
	_ = json.Unmarshal(res.Body, &redirect)

	return redirect.URL, nil
}

// encodePassword mirrors the web contract's credential encoding:
// base64(encodeURI(password)).
func encodePassword(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(uriEncode(password)))
}

// uriEncode percent-encodes password bytes the way ECMAScript encodeURI does.
func uriEncode(s string) string {
	const unescaped = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
		"-_.!~*'();/?:@&=+$,#"
	const hexDigits = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(unescaped, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xF])
	}

	return b.String()
}
