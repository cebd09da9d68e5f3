// Package session implements the client-side session and authorization core
// for the back-office console: credential lifecycle against the remote
// identity service, and permission enforcement for everything the UI layer
// wants to render or do.
package session

import (
	"context"
	"sync"

	"github.com/cccteam/logger"
	"github.com/gestion-consola/session/credstore"
	"github.com/gestion-consola/session/enforcer"
	"github.com/gestion-consola/session/profile"
	"go.opentelemetry.io/otel"
)

const name = "github.com/gestion-consola/session"

// authCredentialKey is the credential-store entry holding the bearer token.
const authCredentialKey = "auth"

// Manager owns the session state machine: logged out, authenticating, and
// authenticated with a built policy engine. Construct one per browser-context
// equivalent; all methods are safe for concurrent use.
type Manager struct {
	identity    IdentityService
	creds       credstore.Store
	buildEngine EngineBuilder

	mu      sync.Mutex
	user    *profile.User
	engine  PolicyEngine
	loading bool
}

// New returns a logged-out Manager wired to the given collaborators.
func New(identityService IdentityService, creds credstore.Store, opts ...Option) *Manager {
	m := &Manager{
		identity: identityService,
		creds:    creds,
		buildEngine: func(tuples [][]string) (PolicyEngine, error) {
			return enforcer.New(tuples)
		},
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// User returns the current session snapshot, or nil when logged out.
func (m *Manager) User() *profile.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.user
}

// IsAuthLoading reports whether a session-mutating operation is in flight.
func (m *Manager) IsAuthLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loading
}

// CheckPermission reports whether the session's active role may perform
// action on object. It fails closed: no session, no engine, or no resolvable
// active role all answer false.
func (m *Manager) CheckPermission(ctx context.Context, object, action string) bool {
	m.mu.Lock()
	user, engine := m.user, m.engine
	m.mu.Unlock()

	if user == nil || engine == nil {
		return false
	}

	role, ok := user.ActiveRole()
	if !ok {
		return false
	}

	allowed := engine.Enforce(role.Code, object, action)
	logger.Ctx(ctx).Infof("enforce(%s, %s, %s) = %t", role.Code, object, action, allowed)

	return allowed
}

// commit installs a new session snapshot and its policy engine in one step.
// In-flight reads against the previous engine keep their instance; the swap
// is only a reference replacement.
func (m *Manager) commit(user *profile.User, engine PolicyEngine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.engine = engine
}

// teardown clears the in-memory session state and the persisted credential.
// Safe to invoke repeatedly and from concurrent failure paths.
func (m *Manager) teardown(ctx context.Context) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.teardown()")
	defer span.End()

	m.mu.Lock()
	m.user = nil
	m.engine = nil
	m.mu.Unlock()

	m.creds.Delete(ctx, authCredentialKey)
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = loading
}
