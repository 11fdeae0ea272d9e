package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/client/bootstrap"
	"github.com/postforge/identity/internal/client/store"
	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/logging"
)

// --- fakes ---

type fakeClient struct {
	api.Client

	loginUser  *api.User
	loginToken string
	loginErr   error

	setupUser  *api.User
	setupToken string
	setupErr   error

	meFn func(ctx context.Context) (*api.User, error)

	logoutErr   error
	logoutCalls int
}

func (f *fakeClient) Status(ctx context.Context) (*api.Status, error) {
	return &api.Status{Configured: true}, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginUser, f.loginToken, nil
}

func (f *fakeClient) Setup(ctx context.Context, name, email, password string) (*api.User, string, error) {
	if f.setupErr != nil {
		return nil, "", f.setupErr
	}
	return f.setupUser, f.setupToken, nil
}

func (f *fakeClient) Me(ctx context.Context) (*api.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx)
	}
	return nil, common.ErrUnauthorized
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

type memStore struct {
	mu    sync.Mutex
	creds *store.Credentials

	saveErr error
}

func (m *memStore) Load(ctx context.Context) (*store.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *memStore) Save(ctx context.Context, creds *store.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}

func newController(client api.Client, credStore store.CredentialStore) *Controller {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gate := bootstrap.NewGate(client)
	return NewController(client, credStore, gate, logger)
}

var testUser = &api.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Plan: "premium"}

// --- tests ---

func TestLogin_InstallsSession(t *testing.T) {
	client := &fakeClient{loginUser: testUser, loginToken: "tok-1"}
	st := &memStore{}
	c := newController(client, st)

	user, err := c.Login(context.Background(), "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if c.Token() != "tok-1" {
		t.Fatalf("token not installed: %q", c.Token())
	}
	if !c.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}
	if st.creds == nil || st.creds.Token != "tok-1" {
		t.Fatalf("credentials not persisted: %+v", st.creds)
	}
}

func TestLogin_FailureLeavesAnonymous(t *testing.T) {
	client := &fakeClient{loginErr: &common.AuthError{Reason: "invalid email or password"}}
	c := newController(client, &memStore{})

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if c.IsAuthenticated() || c.Token() != "" {
		t.Fatal("failed login must not install a session")
	}
}

func TestSetup_MarksGateConfigured(t *testing.T) {
	client := &fakeClient{setupUser: testUser, setupToken: "tok-1"}
	st := &memStore{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gate := bootstrap.NewGate(client)
	c := NewController(client, st, gate, logger)

	if _, err := c.Setup(context.Background(), "Alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if !c.IsAuthenticated() {
		t.Fatal("expected authenticated state after setup")
	}
	if gate.State() != bootstrap.StateConfigured {
		t.Fatalf("gate not marked configured: %v", gate.State())
	}
}

func TestLogout_PurgesEvenWhenServerFails(t *testing.T) {
	client := &fakeClient{loginUser: testUser, loginToken: "tok-1", logoutErr: errors.New("connection refused")}
	st := &memStore{}
	c := newController(client, st)

	if _, err := c.Login(context.Background(), "alice@example.com", "password1"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	c.Logout(context.Background())

	if c.IsAuthenticated() || c.Token() != "" || c.CurrentUser() != nil {
		t.Fatal("logout must clear local state regardless of server errors")
	}
	if st.creds != nil {
		t.Fatalf("persisted credentials not cleared: %+v", st.creds)
	}
	if client.logoutCalls != 1 {
		t.Fatalf("expected one server logout attempt, got %d", client.logoutCalls)
	}
}

func TestRestore_NoStoredCredentials(t *testing.T) {
	c := newController(&fakeClient{}, &memStore{})

	c.Restore(context.Background())

	if c.IsAuthenticated() || c.Token() != "" {
		t.Fatal("restore without credentials must stay anonymous")
	}
}

func TestRestore_ValidToken(t *testing.T) {
	client := &fakeClient{
		meFn: func(ctx context.Context) (*api.User, error) { return testUser, nil },
	}
	st := &memStore{creds: &store.Credentials{Token: "tok-1", User: *testUser}}
	c := newController(client, st)

	c.Restore(context.Background())

	if !c.IsAuthenticated() {
		t.Fatal("expected authenticated state after restore")
	}
	if c.Token() != "tok-1" || c.CurrentUser().ID != "u-1" {
		t.Fatalf("unexpected state: token=%q user=%+v", c.Token(), c.CurrentUser())
	}
}

func TestRestore_RejectedTokenPurges(t *testing.T) {
	client := &fakeClient{
		meFn: func(ctx context.Context) (*api.User, error) { return nil, common.ErrUnauthorized },
	}
	st := &memStore{creds: &store.Credentials{Token: "tok-stale", User: *testUser}}
	c := newController(client, st)

	c.Restore(context.Background())

	if c.IsAuthenticated() || c.Token() != "" {
		t.Fatal("a rejected token must leave the client logged out")
	}
	if st.creds != nil {
		t.Fatal("stale persisted credentials must be cleared")
	}
}

func TestRestore_LosesRaceAgainstLogout(t *testing.T) {
	st := &memStore{creds: &store.Credentials{Token: "tok-1", User: *testUser}}

	client := &fakeClient{}
	c := newController(client, st)

	// The validation round trip succeeds, but a logout completes while it
	// is in flight. The stale restore result must be discarded.
	client.meFn = func(ctx context.Context) (*api.User, error) {
		c.Logout(ctx)
		return testUser, nil
	}

	c.Restore(context.Background())

	if c.IsAuthenticated() {
		t.Fatal("restore must not resurrect a session the user just ended")
	}
	if c.Token() != "" || c.CurrentUser() != nil {
		t.Fatalf("unexpected state: token=%q user=%+v", c.Token(), c.CurrentUser())
	}
	if st.creds != nil {
		t.Fatalf("credentials must stay cleared, got %+v", st.creds)
	}
}
