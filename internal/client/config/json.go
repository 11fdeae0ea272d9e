package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/postforge/identity/internal/flagx"
	"github.com/postforge/identity/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files; timex.Duration accepts both "12s" strings and
// integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	CredentialsDBPath  string         `json:"credentials_db_path"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags; when neither is set, nothing is loaded. Invalid
// files panic, matching the server config behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.CredentialsDBPath = c.CredentialsDBPath
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
