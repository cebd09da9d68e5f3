package session

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gestion-consola/session/credstore"
	"github.com/gestion-consola/session/identity"
	"github.com/go-playground/errors/v5"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment-driven settings for the session core. Values
// are read from SESSION_* variables.
type Config struct {
	// BaseURL is the identity service / backend root.
	BaseURL string `envconfig:"BASE_URL" required:"true"`

	// CredentialDir is where the file-backed credential store keeps its
	// sealed entries.
	CredentialDir string `envconfig:"CREDENTIAL_DIR" required:"true"`

	// CookieHashKey authenticates stored credentials (base64, 32 or 64 bytes
	// decoded).
	CookieHashKey string `envconfig:"COOKIE_HASH_KEY" required:"true"`

	// CookieBlockKey additionally encrypts stored credentials when set
	// (base64, 16/24/32 bytes decoded).
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"`

	// CookieSecure drives the Secure flag recorded on stored credentials.
	CookieSecure bool `envconfig:"COOKIE_SECURE" default:"true"`

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("session", cfg); err != nil {
		return nil, errors.Wrap(err, "envconfig.Process()")
	}

	return cfg, nil
}

// NewFromConfig wires the production collaborators from cfg: a file-backed
// credential store sealed with the configured keys, and an identity client
// with the configured timeout.
func NewFromConfig(cfg *Config, opts ...Option) (*Manager, error) {
	hashKey, err := base64.StdEncoding.DecodeString(cfg.CookieHashKey)
	if err != nil {
		return nil, errors.Wrap(err, "base64.StdEncoding.DecodeString()")
	}

	var blockKey []byte
	if cfg.CookieBlockKey != "" {
		blockKey, err = base64.StdEncoding.DecodeString(cfg.CookieBlockKey)
		if err != nil {
			return nil, errors.Wrap(err, "base64.StdEncoding.DecodeString()")
		}
	}

	creds := credstore.NewFileStore(cfg.CredentialDir, hashKey, blockKey,
		credstore.WithDefaultSecure(cfg.CookieSecure))

	identityClient, err := identity.New(cfg.BaseURL,
		identity.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	if err != nil {
		return nil, errors.Wrap(err, "identity.New()")
	}

	return New(identityClient, creds, opts...), nil
}
