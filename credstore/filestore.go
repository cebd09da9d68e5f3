package credstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
)

const fileExt = ".cred"

var _ Store = &FileStore{}

// FileStore keeps one file per entry under a directory, sealed with a
// securecookie codec so credentials are HMAC'd (and encrypted when a block
// key is supplied) at rest.
type FileStore struct {
	secureCookie *securecookie.SecureCookie
	dir          string
	secure       bool
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithDefaultSecure sets the default Secure flag recorded on saved entries.
func WithDefaultSecure(secure bool) StoreOption {
	return func(s *FileStore) {
		s.secure = secure
	}
}

// NewFileStore returns a FileStore rooted at dir. hashKey authenticates
// entries; a non-nil blockKey additionally encrypts them.
func NewFileStore(dir string, hashKey, blockKey []byte, opts ...StoreOption) *FileStore {
	s := &FileStore{
		secureCookie: securecookie.New(hashKey, blockKey),
		dir:          dir,
		secure:       true,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *FileStore) Save(ctx context.Context, key, value string, opts ...Attribute) {
	rec := newRecord(value, s.secure, opts)

	encoded, err := s.secureCookie.Encode(key, rec)
	if err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "securecookie.Encode()"))

		return
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "os.MkdirAll()"))

		return
	}
	if err := os.WriteFile(s.filename(key), []byte(encoded), 0o600); err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "os.WriteFile()"))
	}
}

func (s *FileStore) Read(ctx context.Context, key string) (string, bool) {
	encoded, err := os.ReadFile(s.filename(key))
	if err != nil {
		return "", false
	}

	rec := record{}
	if err := s.secureCookie.Decode(key, string(encoded), &rec); err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "securecookie.Decode()"))

		return "", false
	}

	return rec.Value, true
}

func (s *FileStore) Delete(_ context.Context, key string) {
	// A missing entry is already the desired state
	_ = os.Remove(s.filename(key))
}

func (s *FileStore) DeleteAll(ctx context.Context) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		logger.Ctx(ctx).Error(errors.Wrap(err, "filepath.Glob()"))

		return
	}

	for _, entry := range entries {
		_ = os.Remove(entry)
	}
}

func (s *FileStore) filename(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}
