package federation

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/cccteam/httpio"
	"github.com/gestion-consola/session/credstore"
	"github.com/go-playground/errors/v5"
	"golang.org/x/oauth2"
)

type fakeConfig struct {
	authURL     string
	exchangeErr error
	exchanged   bool
}

func (f *fakeConfig) AuthCodeURL(state string, _ ...oauth2.AuthCodeOption) string {
	return f.authURL + "?state=" + url.QueryEscape(state)
}

func (f *fakeConfig) Exchange(_ context.Context, _ string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.exchanged = true
	if f.exchangeErr != nil {
		return nil, errors.Wrap(f.exchangeErr, "oauth2.Config.Exchange()")
	}

	return &oauth2.Token{}, nil
}

func (f *fakeConfig) ClientID() string {
	return "cid"
}

func TestClientAuthCodeURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := credstore.NewMemStore()
	c := &Client{
		config: &fakeConfig{authURL: "https://cd.example/authorize"},
		store:  store,
	}

	got, err := c.AuthCodeURL(ctx, "/admin/home")
	if err != nil {
		t.Fatalf("AuthCodeURL() = %v", err)
	}

	raw, ok := store.Read(ctx, flowStateKey)
	if !ok {
		t.Fatal("flow state was not stored")
	}
	fs := flowState{}
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		t.Fatalf("json.Unmarshal() = %v", err)
	}
	if fs.State == "" || fs.PKCEVerifier == "" {
		t.Errorf("flow state incomplete: %+v", fs)
	}
	if fs.ReturnURL != "/admin/home" {
		t.Errorf("ReturnURL = %q, want %q", fs.ReturnURL, "/admin/home")
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("url.Parse() = %v", err)
	}
	if u.Query().Get("state") != fs.State {
		t.Errorf("state in URL = %q, want %q", u.Query().Get("state"), fs.State)
	}
}

func TestClientCallbackWithoutFlow(t *testing.T) {
	t.Parallel()

	c := &Client{
		config: &fakeConfig{},
		store:  credstore.NewMemStore(),
	}

	_, err := c.Callback(context.Background(), "s", "code", &Claims{})
	if !httpio.HasForbidden(err) {
		t.Errorf("Callback() = %v, want forbidden classification", err)
	}
}

func TestClientCallbackStateMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := credstore.NewMemStore()
	cfg := &fakeConfig{}
	c := &Client{config: cfg, store: store}

	if _, err := c.AuthCodeURL(ctx, "/"); err != nil {
		t.Fatalf("AuthCodeURL() = %v", err)
	}

	_, err := c.Callback(ctx, "forged-state", "code", &Claims{})
	if !httpio.HasForbidden(err) {
		t.Errorf("Callback() = %v, want forbidden classification", err)
	}
	if cfg.exchanged {
		t.Error("Exchange() was reached with a mismatched state")
	}
	if _, ok := store.Read(ctx, flowStateKey); ok {
		t.Error("flow state survived the callback; it must be consumed")
	}
}

func TestClientCallbackExchangeFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := credstore.NewMemStore()
	cfg := &fakeConfig{exchangeErr: errors.New("provider unavailable")}
	c := &Client{config: cfg, store: store}

	if _, err := c.AuthCodeURL(ctx, "/"); err != nil {
		t.Fatalf("AuthCodeURL() = %v", err)
	}

	raw, _ := store.Read(ctx, flowStateKey)
	fs := flowState{}
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		t.Fatalf("json.Unmarshal() = %v", err)
	}

	if _, err := c.Callback(ctx, fs.State, "code", &Claims{}); err == nil {
		t.Error("Callback() = nil, want exchange error")
	}
	if !cfg.exchanged {
		t.Error("Exchange() was not reached with a matching state")
	}
}
