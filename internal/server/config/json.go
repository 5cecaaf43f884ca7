package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/shipyardhq/shipyard/internal/flagx"
	"github.com/shipyardhq/shipyard/internal/timex"
)

// JsonConfig is the JSON-unmarshalling DTO for the config file. It uses
// timex.Duration for interval fields, which accepts both string values such
// as "168h" and integer nanoseconds. After unmarshalling, its fields are
// copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	SlackClientID           string         `json:"slack_client_id"`
	SlackClientSecret       string         `json:"slack_client_secret"`
	SlackRedirectURL        string         `json:"slack_redirect_url"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration from the JSON file named by the -c/-config
// flags into the provided Config. When no flag is given nothing is loaded.
// An unreadable or invalid file panics, matching flag-parse failures.
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

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.SlackClientID = c.SlackClientID
	config.SlackClientSecret = c.SlackClientSecret
	config.SlackRedirectURL = c.SlackRedirectURL
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
