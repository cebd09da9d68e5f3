package identity

import (
	"encoding/json"

	"github.com/gestion-consola/session/profile"
)

// envelope is the identity service's response wrapper.
type envelope struct {
	Finalizado bool            `json:"finalizado"`
	Mensaje    string          `json:"mensaje"`
	Datos      json.RawMessage `json:"datos"`
}

type authRequest struct {
	Username string `json:"usuario"`
	Password string `json:"contrasena"`
}

type changeRoleRequest struct {
	RoleID string `json:"idRol"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

// sessionPayload is the profile-plus-credential shape returned by the auth,
// profile and role-switch endpoints.
type sessionPayload struct {
	AccessToken string `json:"access_token"`
	profile.User
}

func (p *sessionPayload) user() *profile.User {
	u := p.User
	u.Token = p.AccessToken

	return &u
}

type refreshPayload struct {
	AccessToken string `json:"access_token"`
}

// logoutResponse carries the optional federated end-session URL.
type logoutResponse struct {
	URL string `json:"url"`
}
