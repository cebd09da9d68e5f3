package session

import (
	"context"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/gestion-consola/session/identity"
	"github.com/gestion-consola/session/token"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"go.opentelemetry.io/otel"
)

// Do issues an authenticated request against the backend, ensuring a live
// bearer token first. A nil response with a nil error means the session was
// lost mid-call (missing credential, failed refresh, or a 401 from the
// backend) and the request must be treated as aborted, not as an empty
// success. Connectivity failures and the backend's structured error payloads
// are returned as errors for the caller to interpret.
func (m *Manager) Do(ctx context.Context, req *identity.Request) (*identity.Response, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Do()")
	defer span.End()

	if id, err := uuid.NewV4(); err == nil {
		l := logger.Ctx(ctx).WithAttributes().AddAttribute("request ID", id.String()).Logger()
		ctx = logger.NewCtx(ctx, l)
	}

	tok, ok := m.liveToken(ctx)
	if !ok {
		m.teardown(ctx)

		return nil, nil
	}

	authed := *req
	authed.Token = tok

	resp, err := m.identity.Do(ctx, &authed)
	if err != nil {
		if httpio.HasUnauthorized(err) {
			m.Logout(ctx)

			return nil, nil
		}

		return nil, errors.Wrap(err, "identity.Do()")
	}

	return resp, nil
}

// liveToken returns a token that is valid right now, refreshing the persisted
// one in-path when it has expired. Refresh is never speculative: it only
// happens here, at most once per call, in the critical path of the request
// that found the token stale. Concurrent callers near expiry may each trigger
// their own refresh; the identity service treats refresh as idempotent and no
// client-side dedup is attempted.
func (m *Manager) liveToken(ctx context.Context) (string, bool) {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.liveToken()")
	defer span.End()

	tok, ok := m.creds.Read(ctx, authCredentialKey)
	if !ok || tok == "" {
		return "", false
	}

	if token.Valid(tok) {
		return tok, true
	}

	logger.Ctx(ctx).Infof("token expired, requesting renewal")

	renewed, err := m.identity.RefreshToken(ctx, tok)
	if err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "identity.RefreshToken()"))
		m.teardown(ctx)

		return "", false
	}

	m.creds.Save(ctx, authCredentialKey, renewed)

	return renewed, true
}
