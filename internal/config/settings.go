package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings configures the tool itself, as opposed to the project being packaged.
type Settings struct {
	ProjectPath string
	OutputDir   string
	LogLevel    string
	LogFormat   string
	Publish     PublishSettings
}

// PublishSettings configures upload of produced bundles to S3-compatible storage.
type PublishSettings struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough is configured to attempt an upload.
func (p PublishSettings) Enabled() bool {
	return p.Endpoint != "" && p.Bucket != ""
}

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		ProjectPath: "./project.toml",
		OutputDir:   "./target_package",
		LogLevel:    "info",
		LogFormat:   "text",
		Publish: PublishSettings{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// LoadSettings loads a .env file from the working directory if present and
// applies PACKTOOL_* environment variables over the defaults.
func LoadSettings() (Settings, error) {
	_ = godotenv.Load()
	return SettingsFromEnv(os.Getenv)
}

// SettingsFromEnv applies variables read through getenv over the defaults.
func SettingsFromEnv(getenv func(string) string) (Settings, error) {
	cfg := DefaultSettings()

	lookup := func(key string) string {
		return strings.TrimSpace(getenv("PACKTOOL_" + key))
	}

	cfg.ProjectPath = firstNonEmpty(lookup("PROJECT"), cfg.ProjectPath)
	cfg.OutputDir = firstNonEmpty(lookup("OUTPUT_DIR"), cfg.OutputDir)
	cfg.LogLevel = strings.ToLower(firstNonEmpty(lookup("LOG_LEVEL"), cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(firstNonEmpty(lookup("LOG_FORMAT"), cfg.LogFormat))

	cfg.Publish.Endpoint = lookup("S3_ENDPOINT")
	cfg.Publish.Region = firstNonEmpty(lookup("S3_REGION"), cfg.Publish.Region)
	cfg.Publish.AccessKey = lookup("S3_ACCESS_KEY")
	cfg.Publish.SecretKey = lookup("S3_SECRET_KEY")
	cfg.Publish.Bucket = lookup("S3_BUCKET")
	if raw := lookup("S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("parsing PACKTOOL_S3_USE_SSL %q: %w", raw, err)
		}
		cfg.Publish.UseSSL = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (s Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", s.LogLevel)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", s.LogFormat)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
