package session

// Option defines a function signature for configuring a Manager.
type Option func(*Manager)

// WithEngineBuilder replaces the policy engine constructor. The default
// builds a casbin-backed enforcer from the fetched tuple list.
func WithEngineBuilder(build EngineBuilder) Option {
	return func(m *Manager) {
		m.buildEngine = build
	}
}
