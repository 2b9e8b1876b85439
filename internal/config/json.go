package config

import (
	"encoding/json"
	"os"
	"time"

	"campus-notes-bot/internal/flagx"
	"campus-notes-bot/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "15m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	BotToken              string         `json:"bot_token"`
	AdminIDs              []int64        `json:"admin_ids"`
	ArchiveChatID         int64          `json:"archive_chat_id"`
	BotLink               string         `json:"bot_link"`
	DatabaseDSN           string         `json:"database_dsn"`
	HTTPAddr              string         `json:"http_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	ArchiveBackend        string         `json:"archive_backend"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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

	config.BotToken = c.BotToken
	config.AdminIDs = c.AdminIDs
	config.ArchiveChatID = c.ArchiveChatID
	config.BotLink = c.BotLink
	config.DatabaseDSN = c.DatabaseDSN
	config.HTTPAddr = c.HTTPAddr
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.ArchiveBackend = c.ArchiveBackend
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
