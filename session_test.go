package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cccteam/httpio"
	"github.com/gestion-consola/session/credstore"
	"github.com/gestion-consola/session/enforcer"
	"github.com/gestion-consola/session/mock/mock_session"
	"github.com/gestion-consola/session/profile"
	"github.com/go-playground/errors/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(expiresIn).Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("jwt.Token.SignedString() = %v", err)
	}

	return tok
}

func testUser(tok, activeRoleID string) *profile.User {
	return &profile.User{
		ID:           "U1",
		Username:     "ADMINISTRADOR-TECNICO",
		Token:        tok,
		ActiveRoleID: activeRoleID,
		Roles: []profile.Role{
			{ID: "R1", Code: "ADMIN", Name: "Administrador"},
			{ID: "R2", Code: "USUARIO", Name: "Usuario"},
		},
	}
}

var testTuples = [][]string{
	{"ADMIN", "/admin/usuarios", "read"},
}

func TestManagerLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	identitySvc.EXPECT().Auth(gomock.Any(), "ADMINISTRADOR-TECNICO", "123").
		Return(testUser("T1", "R1"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), "T1").Return(testTuples, nil)

	m := New(identitySvc, creds)

	if err := m.Login(ctx, "ADMINISTRADOR-TECNICO", "123"); err != nil {
		t.Fatalf("Login() = %v", err)
	}

	user := m.User()
	if user == nil || user.ActiveRoleID != "R1" {
		t.Fatalf("User().ActiveRoleID = %v, want R1", user)
	}
	if got, ok := creds.Read(ctx, "auth"); !ok || got != "T1" {
		t.Errorf("credential = (%q, %v), want (%q, true)", got, ok, "T1")
	}

	// the active role's policy set is live
	if !m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error(`CheckPermission("/admin/usuarios", "read") = false, want true`)
	}
	if m.CheckPermission(ctx, "/admin/usuarios", "delete") {
		t.Error(`CheckPermission("/admin/usuarios", "delete") = true, want false`)
	}
}

func TestManagerLoginAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(*mock_session.MockIdentityService)
	}{
		{
			name: "credentials rejected",
			prepare: func(identitySvc *mock_session.MockIdentityService) {
				identitySvc.EXPECT().Auth(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("Usuario o contraseña incorrectos"))
			},
		},
		{
			name: "policy fetch fails",
			prepare: func(identitySvc *mock_session.MockIdentityService) {
				identitySvc.EXPECT().Auth(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(testUser("T1", "R1"), nil)
				identitySvc.EXPECT().Permissions(gomock.Any(), "T1").
					Return(nil, errors.New("boom"))
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			identitySvc := mock_session.NewMockIdentityService(ctrl)
			creds := credstore.NewMemStore()
			tt.prepare(identitySvc)

			m := New(identitySvc, creds)

			if err := m.Login(ctx, "usuario", "123"); err == nil {
				t.Fatal("Login() = nil, want error")
			}
			if m.User() != nil {
				t.Error("User() != nil after failed login")
			}
			if _, ok := creds.Read(ctx, "auth"); ok {
				t.Error("credential persisted after failed login")
			}
		})
	}
}

func TestManagerLoginEngineBuildFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	identitySvc.EXPECT().Auth(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(testUser("T1", "R1"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), "T1").Return(testTuples, nil)

	m := New(identitySvc, creds, WithEngineBuilder(func([][]string) (PolicyEngine, error) {
		return nil, errors.New("malformed tuple list")
	}))

	if err := m.Login(ctx, "usuario", "123"); err == nil {
		t.Fatal("Login() = nil, want error")
	}
	if m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = true after failed engine build, want fail-closed false")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("credential persisted after failed engine build")
	}
}

func TestManagerCheckPermissionFailsClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	m := New(mock_session.NewMockIdentityService(ctrl), credstore.NewMemStore())

	// no session, no engine: deterministic false, no panic
	if m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = true with no session, want false")
	}

	// session without a resolvable active role
	m.commit(testUser("T1", "R9"), mustEngine(t, testTuples))
	if m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = true with unresolvable active role, want false")
	}
}

func mustEngine(t *testing.T, tuples [][]string) PolicyEngine {
	t.Helper()

	e, err := enforcer.New(tuples)
	if err != nil {
		t.Fatalf("enforcer.New() = %v", err)
	}

	return e
}

func TestManagerLogoutIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	creds.Save(ctx, "auth", "T1")
	identitySvc.EXPECT().Logout(gomock.Any(), "T1").Return("", nil).AnyTimes()

	m := New(identitySvc, creds)
	m.commit(testUser("T1", "R1"), mustEngine(t, testTuples))

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Logout(ctx)
		}()
	}
	wg.Wait()

	if m.User() != nil {
		t.Error("User() != nil after logout")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("credential survived logout")
	}
	if m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = true after logout")
	}

	// a third logout with no credential skips the server call entirely
	m.Logout(ctx)
}

func TestManagerLogoutServerFailureStillTearsDown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	creds.Save(ctx, "auth", "T1")
	identitySvc.EXPECT().Logout(gomock.Any(), "T1").Return("", errors.New("the server is unreachable"))

	m := New(identitySvc, creds)
	m.commit(testUser("T1", "R1"), mustEngine(t, testTuples))

	m.Logout(ctx)

	if m.User() != nil {
		t.Error("User() != nil after logout with failed server call")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("credential survived logout with failed server call")
	}
}

func TestManagerLogoutFederatedRedirect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	creds.Save(ctx, "auth", "T1")
	identitySvc.EXPECT().Logout(gomock.Any(), "T1").Return("https://cd.example/end-session", nil)

	m := New(identitySvc, creds)

	if got := m.Logout(ctx); got != "https://cd.example/end-session" {
		t.Errorf("Logout() = %q, want the federated end-session URL", got)
	}
}

func TestManagerChangeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	tok1 := signedToken(t, time.Hour)
	tok2 := signedToken(t, 2*time.Hour)

	builds := 0
	m := New(identitySvc, creds, WithEngineBuilder(func(tuples [][]string) (PolicyEngine, error) {
		builds++
		return enforcer.New(tuples)
	}))

	identitySvc.EXPECT().Auth(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(testUser(tok1, "R1"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), tok1).Return(testTuples, nil)
	if err := m.Login(ctx, "usuario", "123"); err != nil {
		t.Fatalf("Login() = %v", err)
	}

	identitySvc.EXPECT().ChangeRole(gomock.Any(), tok1, "R2").
		Return(testUser(tok2, "R2"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), tok2).
		Return([][]string{{"USUARIO", "/admin/perfil", "read"}}, nil)

	if err := m.ChangeRole(ctx, "R2"); err != nil {
		t.Fatalf("ChangeRole() = %v", err)
	}

	if got := m.User().ActiveRoleID; got != "R2" {
		t.Errorf("ActiveRoleID = %q, want R2", got)
	}
	if got, _ := creds.Read(ctx, "auth"); got != tok2 {
		t.Error("credential was not replaced with the re-issued token")
	}
	if builds != 2 {
		t.Errorf("engine builds = %d, want 2 (login + role change)", builds)
	}

	// permission set now reflects the new role
	if !m.CheckPermission(ctx, "/admin/perfil", "read") {
		t.Error("CheckPermission() = false for the new role's policy, want true")
	}
	if m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = true for the old role's policy, want false")
	}
}

func TestManagerChangeRoleUnauthorized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	tok := signedToken(t, time.Hour)
	creds.Save(ctx, "auth", tok)

	identitySvc.EXPECT().ChangeRole(gomock.Any(), tok, "R2").
		Return(nil, httpio.NewUnauthorizedMessage("credential rejected by the backend"))
	identitySvc.EXPECT().Logout(gomock.Any(), tok).Return("", nil)

	m := New(identitySvc, creds)
	m.commit(testUser(tok, "R1"), mustEngine(t, testTuples))

	if err := m.ChangeRole(ctx, "R2"); err == nil {
		t.Fatal("ChangeRole() = nil, want error")
	}
	if m.User() != nil {
		t.Error("User() != nil after 401 on role change")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("credential survived 401 on role change")
	}
}

func TestManagerFetchUserProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	// boot-time restore: a live credential is already persisted
	tok := signedToken(t, time.Hour)
	creds.Save(ctx, "auth", tok)

	identitySvc.EXPECT().Profile(gomock.Any(), tok).Return(testUser("", "R1"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), tok).Return(testTuples, nil)

	m := New(identitySvc, creds)

	if err := m.FetchUserProfile(ctx); err != nil {
		t.Fatalf("FetchUserProfile() = %v", err)
	}
	if m.User() == nil || m.User().ActiveRoleID != "R1" {
		t.Errorf("User() = %+v, want restored session with role R1", m.User())
	}
	if !m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = false after restore, want true")
	}
}

func TestManagerFetchUserProfileFailureLogsOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	tok := signedToken(t, time.Hour)
	creds.Save(ctx, "auth", tok)

	identitySvc.EXPECT().Profile(gomock.Any(), tok).Return(nil, errors.New("boom"))
	identitySvc.EXPECT().Logout(gomock.Any(), tok).Return("", nil)

	m := New(identitySvc, creds)

	if err := m.FetchUserProfile(ctx); err == nil {
		t.Fatal("FetchUserProfile() = nil, want error")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("credential survived failed profile restore")
	}
}

func TestManagerUpdateProfileKeepsSessionOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	tok := signedToken(t, time.Hour)
	creds.Save(ctx, "auth", tok)

	identitySvc.EXPECT().Profile(gomock.Any(), tok).Return(nil, errors.New("validation failed"))

	m := New(identitySvc, creds)
	m.commit(testUser(tok, "R1"), mustEngine(t, testTuples))

	if err := m.UpdateProfile(ctx); err == nil {
		t.Fatal("UpdateProfile() = nil, want error")
	}

	// errors propagate; the previous session stays in place
	if m.User() == nil {
		t.Error("User() = nil after failed profile update, want previous session")
	}
	if !m.CheckPermission(ctx, "/admin/usuarios", "read") {
		t.Error("CheckPermission() = false after failed profile update, want previous engine")
	}
}

func TestManagerAdoptToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	m := New(identitySvc, creds)

	// a dead token is rejected before anything is persisted
	if err := m.AdoptToken(ctx, signedToken(t, -time.Minute)); err == nil {
		t.Fatal("AdoptToken() = nil for expired token, want error")
	}
	if _, ok := creds.Read(ctx, "auth"); ok {
		t.Error("expired token was persisted")
	}

	tok := signedToken(t, time.Hour)
	identitySvc.EXPECT().Profile(gomock.Any(), tok).Return(testUser(tok, "R1"), nil)
	identitySvc.EXPECT().Permissions(gomock.Any(), tok).Return(testTuples, nil)

	if err := m.AdoptToken(ctx, tok); err != nil {
		t.Fatalf("AdoptToken() = %v", err)
	}
	if m.User() == nil {
		t.Fatal("User() = nil after adopting a live token")
	}
}

func TestManagerIsAuthLoading(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	identitySvc := mock_session.NewMockIdentityService(ctrl)
	creds := credstore.NewMemStore()

	m := New(identitySvc, creds)

	identitySvc.EXPECT().Auth(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) (*profile.User, error) {
			if !m.IsAuthLoading() {
				t.Error("IsAuthLoading() = false mid-login, want true")
			}
			return testUser("T1", "R1"), nil
		})
	identitySvc.EXPECT().Permissions(gomock.Any(), "T1").Return(testTuples, nil)

	if err := m.Login(ctx, "usuario", "123"); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	if m.IsAuthLoading() {
		t.Error("IsAuthLoading() = true after login finished, want false")
	}
}
