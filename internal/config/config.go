package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"fabric-archiver/internal/domain"
)

// RetryConfig mirrors the "retry" block of the JSON config file.
type RetryConfig struct {
	MaxRetries        int     `json:"maxRetries"`
	BaseDelaySeconds  float64 `json:"baseDelaySeconds"`
	BackoffMultiplier float64 `json:"backoffMultiplier"`
}

// SFTPConfig is the optional delivery drop for run output.
type SFTPConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Pass      string `json:"-"` // env only, never in the file
	RemoteDir string `json:"remoteDir"`
}

type Config struct {
	// Remote API
	APIBaseURL string `json:"apiBaseUrl"`
	APIToken   string `json:"-"` // env only

	// Run
	WorkspaceFilter    string   `json:"workspaceFilter"`
	SupportedItemTypes []string `json:"supportedItemTypes"`
	TargetFolder       string   `json:"targetFolder"`
	ThrottleLimit      int      `json:"throttleLimit"` // 0 = auto
	CompressPayloads   bool     `json:"compressPayloads"`

	Retry RetryConfig `json:"retry"`
	SFTP  SFTPConfig  `json:"sftp"`
}

// Defaults returns the built-in configuration, before file and env layers.
func Defaults() Config {
	return Config{
		APIBaseURL:   "https://api.fabric.microsoft.com",
		TargetFolder: "archive",
		SupportedItemTypes: []string{
			"Report", "SemanticModel", "Notebook", "SparkJobDefinition", "DataPipeline",
		},
		Retry: RetryConfig{
			MaxRetries:        5,
			BaseDelaySeconds:  30,
			BackoffMultiplier: 2,
		},
		SFTP: SFTPConfig{Port: 22},
	}
}

// Load builds the effective configuration: defaults, then the optional JSON
// file at path (empty path skips the file layer), then environment
// variables on top. Secrets only ever come from the environment.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = getenv("FABRIC_API_BASE_URL", cfg.APIBaseURL)
	cfg.APIToken = os.Getenv("FABRIC_API_TOKEN")
	cfg.WorkspaceFilter = getenv("ARCHIVE_WORKSPACE_FILTER", cfg.WorkspaceFilter)
	cfg.TargetFolder = getenv("ARCHIVE_TARGET_FOLDER", cfg.TargetFolder)
	cfg.ThrottleLimit = envInt("ARCHIVE_THROTTLE_LIMIT", cfg.ThrottleLimit)

	cfg.SFTP.Host = getenv("SFTP_HOST", cfg.SFTP.Host)
	cfg.SFTP.Port = envInt("SFTP_PORT", cfg.SFTP.Port)
	cfg.SFTP.User = getenv("SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Pass = os.Getenv("SFTP_PASS")
	cfg.SFTP.RemoteDir = getenv("SFTP_REMOTE_DIR", cfg.SFTP.RemoteDir)

	return cfg, nil
}

// RetryPolicy converts the retry block into the executor's value object.
func (c Config) RetryPolicy() domain.RetryPolicy {
	r := c.Retry
	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}
	if r.BaseDelaySeconds <= 0 {
		r.BaseDelaySeconds = Defaults().Retry.BaseDelaySeconds
	}
	if r.BackoffMultiplier < 1 {
		r.BackoffMultiplier = 1
	}
	return domain.RetryPolicy{
		MaxRetries:        r.MaxRetries,
		BaseDelay:         time.Duration(r.BaseDelaySeconds * float64(time.Second)),
		BackoffMultiplier: r.BackoffMultiplier,
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
