package session

import (
	"context"

	"github.com/gestion-consola/session/enforcer"
	"github.com/gestion-consola/session/identity"
	"github.com/gestion-consola/session/profile"
)

// IdentityService is the remote identity collaborator the Manager
// orchestrates. identity.Client is the production implementation.
type IdentityService interface {
	// Auth exchanges credentials for a token, profile and role list.
	Auth(ctx context.Context, username, password string) (*profile.User, error)

	// Profile returns the full profile for the bearer of token.
	Profile(ctx context.Context, tok string) (*profile.User, error)

	// ChangeRole re-scopes the session to roleID, re-issuing the token.
	ChangeRole(ctx context.Context, tok, roleID string) (*profile.User, error)

	// RefreshToken exchanges a stale token for a renewed one.
	RefreshToken(ctx context.Context, tok string) (string, error)

	// Permissions returns the flat policy tuple list for the bearer of token.
	Permissions(ctx context.Context, tok string) ([][]string, error)

	// Logout invalidates the session server-side, returning an optional
	// federated end-session URL.
	Logout(ctx context.Context, tok string) (string, error)

	// Do issues an arbitrary authenticated call against the backend.
	Do(ctx context.Context, req *identity.Request) (*identity.Response, error)
}

// PolicyEngine answers permission checks for one session's policy snapshot.
type PolicyEngine interface {
	Enforce(subject, object, action string) bool
}

// EngineBuilder constructs a PolicyEngine from a policy tuple list.
type EngineBuilder func(tuples [][]string) (PolicyEngine, error)

var (
	_ IdentityService = &identity.Client{}
	_ PolicyEngine    = &enforcer.Enforcer{}
)
