package config

import (
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the SWARM Hive API root.
	DefaultBaseURL = "https://bumblebee.hive.swarm.space/hive"
	// DefaultUsername is the organization account used when SWARM_USER_NAME is unset.
	DefaultUsername = "TheNatureConservancy"
)

// Config holds the runtime configuration for one run of the hive tool.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	BaseURL     string
	HTTPTimeout time.Duration

	// APIToken is read for parity with the Hive tooling environment; login
	// always obtains a fresh bearer token.
	APIToken string
	Username string
	Password string

	// SecretID, when set, names an AWS Secrets Manager secret holding
	// {"username": "...", "password": "..."} that overrides the env credentials.
	SecretID  string
	AWSRegion string

	// MetricsFile is the node-exporter textfile written at the end of a run.
	MetricsFile string
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName: GetEnv("SERVICE_NAME", "swarm-hive"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		BaseURL:     GetEnvURL("SWARM_HIVE_URL", DefaultBaseURL),
		HTTPTimeout: GetEnvDuration("SWARM_HTTP_TIMEOUT", 30*time.Second),
		APIToken:    GetEnv("SWARM_API_TOKEN", ""),
		Username:    GetEnv("SWARM_USER_NAME", DefaultUsername),
		Password:    GetEnv("SWARM_PW", ""),
		SecretID:    GetEnv("SWARM_SECRET_ID", ""),
		AWSRegion:   GetEnv("AWS_REGION", "us-west-2"),
		MetricsFile: GetEnv("SWARM_METRICS_FILE", ""),
	}
}
