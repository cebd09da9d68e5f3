package session

import (
	"context"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/gestion-consola/session/profile"
	"github.com/gestion-consola/session/token"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

// Login exchanges credentials for a session. The commit is all-or-nothing:
// the token is persisted, the profile set and the policy engine built, or the
// Manager stays logged out with no credential persisted and the identity
// service's error is returned for the caller to display.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Login()")
	defer span.End()

	m.setLoading(true)
	defer m.setLoading(false)

	user, err := m.identity.Auth(ctx, username, password)
	if err != nil {
		return errors.Wrap(err, "identity.Auth()")
	}

	m.creds.Save(ctx, authCredentialKey, user.Token)

	tuples, err := m.identity.Permissions(ctx, user.Token)
	if err != nil {
		m.creds.Delete(ctx, authCredentialKey)

		return errors.Wrap(err, "identity.Permissions()")
	}

	engine, err := m.buildEngine(tuples)
	if err != nil {
		m.creds.Delete(ctx, authCredentialKey)

		return errors.Wrap(err, "buildEngine()")
	}

	m.commit(user, engine)

	return nil
}

// Logout invalidates the session server-side on a best-effort basis and then
// unconditionally clears the local session, the credential and the policy
// engine. It never fails: a client must not be able to get stuck logged in.
// The returned URL, when non-empty, is the federated end-session endpoint the
// caller should visit to finish a Ciudadanía Digital logout.
func (m *Manager) Logout(ctx context.Context) (redirectURL string) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Logout()")
	defer span.End()

	if tok, ok := m.creds.Read(ctx, authCredentialKey); ok {
		url, err := m.identity.Logout(ctx, tok)
		if err != nil {
			logger.Ctx(ctx).Error(errors.Wrap(err, "identity.Logout()"))
		} else {
			redirectURL = url
		}
	}

	m.teardown(ctx)

	return redirectURL
}

// ChangeRole re-scopes the session to roleID: the identity service re-issues
// a token for the new role, the session snapshot is replaced, and the policy
// engine is rebuilt from a re-fetched tuple list. A 401 anywhere escalates to
// a forced logout.
func (m *Manager) ChangeRole(ctx context.Context, roleID string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.ChangeRole()")
	defer span.End()

	m.setLoading(true)
	defer m.setLoading(false)

	tok, ok := m.liveToken(ctx)
	if !ok {
		m.teardown(ctx)

		return httpio.NewUnauthorizedMessage("no live session")
	}

	user, err := m.identity.ChangeRole(ctx, tok, roleID)
	if err != nil {
		if httpio.HasUnauthorized(err) {
			m.Logout(ctx)
		}

		return errors.Wrap(err, "identity.ChangeRole()")
	}

	m.creds.Save(ctx, authCredentialKey, user.Token)

	return m.rebuild(ctx, user)
}

// FetchUserProfile restores the session from a persisted credential, used on
// boot when a token is already present. Any failure escalates to a forced
// logout: a profile that cannot be derived is a session that cannot be
// trusted.
func (m *Manager) FetchUserProfile(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.FetchUserProfile()")
	defer span.End()

	m.setLoading(true)
	defer m.setLoading(false)

	tok, ok := m.liveToken(ctx)
	if !ok {
		m.teardown(ctx)

		return httpio.NewUnauthorizedMessage("no persisted session")
	}

	user, err := m.identity.Profile(ctx, tok)
	if err != nil {
		m.Logout(ctx)

		return errors.Wrap(err, "identity.Profile()")
	}
	if user.Token == "" {
		user.Token = tok
	} else if user.Token != tok {
		m.creds.Save(ctx, authCredentialKey, user.Token)
	}

	if err := m.rebuild(ctx, user); err != nil {
		m.Logout(ctx)

		return err
	}

	return nil
}

// UpdateProfile replaces the session snapshot after a profile-mutating
// action. Errors propagate to the caller; the previous session stays in
// place.
func (m *Manager) UpdateProfile(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.UpdateProfile()")
	defer span.End()

	tok, ok := m.liveToken(ctx)
	if !ok {
		m.teardown(ctx)

		return httpio.NewUnauthorizedMessage("no live session")
	}

	user, err := m.identity.Profile(ctx, tok)
	if err != nil {
		return errors.Wrap(err, "identity.Profile()")
	}
	if user.Token == "" {
		user.Token = tok
	} else if user.Token != tok {
		m.creds.Save(ctx, authCredentialKey, user.Token)
	}

	return m.rebuild(ctx, user)
}

// AdoptToken persists a token obtained outside the credential login flow (the
// Ciudadanía Digital callback hands one back) and restores the session from
// it.
func (m *Manager) AdoptToken(ctx context.Context, tok string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.AdoptToken()")
	defer span.End()

	if !token.Valid(tok) {
		return httpio.NewUnauthorizedMessage("token is not live")
	}

	m.creds.Save(ctx, authCredentialKey, tok)

	return m.FetchUserProfile(ctx)
}

// rebuild fetches the tuple list for user's credential, builds a fresh policy
// engine and commits both. A failed build leaves the Manager with the new
// session but no engine, so permission checks fail closed instead of serving
// a stale policy set.
func (m *Manager) rebuild(ctx context.Context, user *profile.User) error {
	tuples, err := m.identity.Permissions(ctx, user.Token)
	if err != nil {
		return errors.Wrap(err, "identity.Permissions()")
	}

	engine, err := m.buildEngine(tuples)
	if err != nil {
		m.commit(user, nil)

		return errors.Wrap(err, "buildEngine()")
	}

	m.commit(user, engine)

	return nil
}
