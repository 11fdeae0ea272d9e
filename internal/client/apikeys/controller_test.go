package apikeys

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/common"
)

type fakeClient struct {
	api.Client

	keys    []api.APIKey
	listErr error

	created   *api.CreatedKey
	createErr error

	revokeErr error

	listCalls   int
	createCalls int
	revokeCalls int
}

func (f *fakeClient) ListKeys(ctx context.Context) ([]api.APIKey, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeClient) CreateKey(ctx context.Context, name, description string) (*api.CreatedKey, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeClient) RevokeKey(ctx context.Context, id string) error {
	f.revokeCalls++
	return f.revokeErr
}

func TestList_CachesResult(t *testing.T) {
	client := &fakeClient{keys: []api.APIKey{
		{ID: "k-1", Name: "ci", KeyPreview: "pf_aaaaaaaa..."},
		{ID: "k-2", Name: "local", KeyPreview: "pf_bbbbbbbb..."},
	}}
	c := NewController(client)

	keys, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}

	cached := c.Keys()
	if len(cached) != 2 || cached[0].ID != "k-1" {
		t.Fatalf("unexpected cache: %+v", cached)
	}
}

func TestCreate_EmptyNameSkipsNetwork(t *testing.T) {
	client := &fakeClient{}
	c := NewController(client)

	_, err := c.Create(context.Background(), "   ", "whatever")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if client.createCalls != 0 || client.listCalls != 0 {
		t.Fatalf("network calls issued for an invalid name: create=%d list=%d",
			client.createCalls, client.listCalls)
	}
}

func TestCreate_Success(t *testing.T) {
	secret := "pf_" + strings.Repeat("a", 64)
	client := &fakeClient{created: &api.CreatedKey{
		APIKey: api.APIKey{ID: "k-1", Name: "ci", KeyPreview: "pf_aaaaaaaa...", CreatedAt: time.Now()},
		Key:    secret,
	}}
	c := NewController(client)

	issued, err := c.Create(context.Background(), "ci", "deploy pipeline")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if issued.Reveal() != secret {
		t.Fatalf("unexpected secret: %q", issued.Reveal())
	}
	if issued.Record().ID != "k-1" {
		t.Fatalf("unexpected record: %+v", issued.Record())
	}
	if client.listCalls != 1 {
		t.Fatalf("expected a cache refresh after create, got %d list calls", client.listCalls)
	}
}

func TestCreate_LimitError(t *testing.T) {
	client := &fakeClient{createErr: common.ErrTooManyKeys}
	c := NewController(client)

	_, err := c.Create(context.Background(), "one-too-many", "")
	if !errors.Is(err, common.ErrTooManyKeys) {
		t.Fatalf("expected ErrTooManyKeys, got %v", err)
	}
}

func TestIssuedKey_Masked(t *testing.T) {
	secret := "pf_" + strings.Repeat("a", 64)
	issued := newIssuedKey(&api.CreatedKey{Key: secret})

	masked := issued.Masked()
	if !strings.HasPrefix(masked, common.APIKeyPrefix) {
		t.Fatalf("masked form missing prefix: %q", masked)
	}
	if strings.Contains(masked, "a") {
		t.Fatalf("masked form leaks the secret: %q", masked)
	}
	if len(masked) != len(secret) {
		t.Fatalf("masked length %d, want %d", len(masked), len(secret))
	}
}

func TestRevoke(t *testing.T) {
	client := &fakeClient{}
	c := NewController(client)

	if err := c.Revoke(context.Background(), "k-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if client.revokeCalls != 1 || client.listCalls != 1 {
		t.Fatalf("unexpected calls: revoke=%d list=%d", client.revokeCalls, client.listCalls)
	}

	client.revokeErr = common.ErrNotFound
	if err := c.Revoke(context.Background(), "k-404"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
