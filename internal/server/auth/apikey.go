package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/postforge/identity/internal/common"
)

// apiKeyRandBytes is the number of random bytes in a key's payload;
// encoded as hex this yields 64 characters after the prefix.
const apiKeyRandBytes = 32

const previewPayloadLen = 8

// GenerateAPIKey creates a new API key secret with the standard prefix.
func GenerateAPIKey() (string, error) {
	payload, err := common.MakeRandHexString(apiKeyRandBytes)
	if err != nil {
		return "", err
	}
	return common.APIKeyPrefix + payload, nil
}

// APIKeyPreview returns the redacted display form of a key secret:
// the prefix, the first few payload characters and an ellipsis.
func APIKeyPreview(secret string) string {
	payload := secret
	if len(payload) > len(common.APIKeyPrefix) {
		payload = payload[len(common.APIKeyPrefix):]
	}
	if len(payload) > previewPayloadLen {
		payload = payload[:previewPayloadLen]
	}
	return common.APIKeyPrefix + payload + "..."
}

// APIKeyDigest returns the hex SHA-256 digest stored in place of the
// plaintext secret.
func APIKeyDigest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
