// Package federation implements the Ciudadanía Digital login flow: an OIDC
// authorization-code exchange with PKCE and a random state value. The
// in-flight flow state lives in the credential store between the redirect and
// the callback, sealed at rest the same way the bearer credential is.
package federation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cccteam/httpio"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gestion-consola/session/credstore"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"golang.org/x/oauth2"
)

// flowStateKey is the credential-store entry holding the in-flight flow state.
const flowStateKey = "cd_flow"

// flowState is what survives between AuthCodeURL and Callback.
type flowState struct {
	State        string `json:"state"`
	PKCEVerifier string `json:"pkceVerifier"`
	ReturnURL    string `json:"returnURL"`
}

// Claims are the ID token claims Ciudadanía Digital delivers.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	DocumentNo    string `json:"nro_documento"`
}

// Defined for testability
type provider interface {
	Verifier(config *oidc.Config) *oidc.IDTokenVerifier
	Endpoint() oauth2.Endpoint
}

// Defined for testability
type config interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	ClientID() string
}

// Client drives the federated login flow against the Ciudadanía Digital
// provider.
type Client struct {
	provider provider
	config   config
	store    credstore.Store
}

// New discovers the provider at issuerURL and returns a flow Client.
func New(ctx context.Context, store credstore.Store, issuerURL, clientID, clientSecret, redirectURL string) (*Client, error) {
	p, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "oidc.NewProvider()")
	}

	return &Client{
		provider: p,
		config: &oAuth2{
			config: oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURL,
				Endpoint:     p.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		},
		store: store,
	}, nil
}

// AuthCodeURL begins a flow and returns the provider URL to visit. returnURL
// is where the caller lands after the callback completes.
func (c *Client) AuthCodeURL(ctx context.Context, returnURL string) (string, error) {
	// PKCE protects against authorization-code interception
	pkceVerifier := oauth2.GenerateVerifier()

	// a random state protects the callback against CSRF
	state, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "uuid.NewV4()")
	}

	fs, err := json.Marshal(flowState{
		State:        state.String(),
		PKCEVerifier: pkceVerifier,
		ReturnURL:    returnURL,
	})
	if err != nil {
		return "", errors.Wrap(err, "json.Marshal()")
	}
	c.store.Save(ctx, flowStateKey, string(fs))

	return c.config.AuthCodeURL(state.String(), oauth2.S256ChallengeOption(pkceVerifier)), nil
}

// Callback completes the flow with the state and code the provider sent back.
// It populates claims with the verified ID token's claims and returns the
// returnURL recorded when the flow began. The flow state is consumed whether
// or not the callback succeeds.
func (c *Client) Callback(ctx context.Context, state, code string, claims any) (returnURL string, err error) {
	raw, ok := c.store.Read(ctx, flowStateKey)
	if !ok {
		return "", httpio.NewForbiddenMessage("no login flow in progress")
	}
	c.store.Delete(ctx, flowStateKey)

	fs := flowState{}
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		return "", errors.Wrap(err, "json.Unmarshal()")
	}

	returnURL = fs.ReturnURL
	if strings.TrimSpace(returnURL) == "" {
		returnURL = "/"
	}

	if state != fs.State {
		return "", httpio.NewForbiddenMessage("invalid 'state' parameter value")
	}

	oauth2Token, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(fs.PKCEVerifier))
	if err != nil {
		return "", errors.Wrap(err, "oauth2.Config.Exchange()")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("no id_token in token response")
	}

	verifier := c.provider.Verifier(&oidc.Config{ClientID: c.config.ClientID()})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", errors.Wrap(err, "oidc.IDTokenVerifier.Verify()")
	}

	if err := idToken.Claims(claims); err != nil {
		return "", errors.Wrap(err, "oidc.IDToken.Claims()")
	}

	return returnURL, nil
}
