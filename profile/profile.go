// Package profile holds the session snapshot types delivered by the identity
// service. The snapshot is immutable once delivered; every profile refresh or
// role switch replaces it wholesale.
package profile

// User is the authenticated user's profile for the current session.
type User struct {
	ID                 string `json:"id"`
	Username           string `json:"usuario"`
	Email              string `json:"correoElectronico"`
	DigitalCitizenship bool   `json:"ciudadaniaDigital"`
	Roles              []Role `json:"roles"`
	Token              string `json:"token"`
	ActiveRoleID       string `json:"idRol"`
	PhotoURL           string `json:"urlFoto,omitempty"`
	Person             Person `json:"persona"`
}

// Person is the civil-registry identity attached to a user.
type Person struct {
	Names         string `json:"nombres"`
	FirstSurname  string `json:"primerApellido"`
	SecondSurname string `json:"segundoApellido"`
	DocumentType  string `json:"tipoDocumento"`
	DocumentNo    string `json:"nroDocumento"`
	BirthDate     string `json:"fechaNacimiento"`
}

// Role is one of the roles the identity service granted for this session.
type Role struct {
	ID          string   `json:"idRol"`
	Code        string   `json:"rol"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Modules     []Module `json:"modulos"`
}

// Module is the navigation and permission grouping metadata delivered with a
// role. It doubles as the object namespace for permission checks.
type Module struct {
	ID         string           `json:"id"`
	Status     string           `json:"estado"`
	Label      string           `json:"label"`
	URL        string           `json:"url"`
	Name       string           `json:"nombre"`
	Properties ModuleProperties `json:"propiedades"`
	SubModules []SubModule      `json:"subModulo"`
}

// ModuleProperties carries the ordering and description for a module.
type ModuleProperties struct {
	Order       int    `json:"orden"`
	Description string `json:"descripcion"`
}

// SubModule is a navigation entry nested under a Module.
type SubModule struct {
	ID         string              `json:"id"`
	Status     string              `json:"estado"`
	Label      string              `json:"label"`
	URL        string              `json:"url"`
	Name       string              `json:"nombre"`
	Properties SubModuleProperties `json:"propiedades"`
}

// SubModuleProperties carries the icon, ordering and description for a submodule.
type SubModuleProperties struct {
	Icon        string `json:"icono"`
	Order       int    `json:"orden"`
	Description string `json:"descripcion"`
}

// ActiveRole returns the role the session is currently scoped to.
func (u *User) ActiveRole() (Role, bool) {
	for _, r := range u.Roles {
		if r.ID == u.ActiveRoleID {
			return r, true
		}
	}

	return Role{}, false
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(roleID string) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}

	return false
}
