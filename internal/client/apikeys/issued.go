package apikeys

import (
	"strings"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/common"
)

// IssuedKey wraps a freshly created key. It is a distinct type from
// api.APIKey so the secret cannot end up where preview records go: it
// has no JSON tags, is never persisted, and the secret is only reachable
// through Reveal.
type IssuedKey struct {
	record api.APIKey
	secret string
}

func newIssuedKey(created *api.CreatedKey) *IssuedKey {
	return &IssuedKey{record: created.APIKey, secret: created.Key}
}

// Record returns the preview-form record of the key.
func (k *IssuedKey) Record() api.APIKey {
	return k.record
}

// Masked returns the secret in masked display form. This is the default
// rendering; Reveal is an explicit action.
func (k *IssuedKey) Masked() string {
	payload := strings.TrimPrefix(k.secret, common.APIKeyPrefix)
	return common.APIKeyPrefix + strings.Repeat("*", len(payload))
}

// Reveal returns the full secret. It is valid only between creation and
// the user dismissing it; callers must not store the value.
func (k *IssuedKey) Reveal() string {
	return k.secret
}
