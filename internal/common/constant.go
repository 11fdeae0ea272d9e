package common

// AuthHeaderName is the HTTP header carrying the bearer session token.
const AuthHeaderName = "Authorization"

// BearerPrefix prefixes the session token in the Authorization header.
const BearerPrefix = "Bearer "

// APIKeyHeaderName is the HTTP header carrying a long-lived API key.
const APIKeyHeaderName = "X-API-Key"

// APIKeyPrefix prefixes every issued API key secret.
const APIKeyPrefix = "pf_"
