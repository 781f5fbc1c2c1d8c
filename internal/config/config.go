// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // WEFT_DATABASE_URL (required)
	HTTPAddr    string // WEFT_HTTP_ADDR (default ":8080")
	NATSURL     string // WEFT_NATS_URL (optional, empty = no events)
	AuthToken   string // WEFT_AUTH_TOKEN (optional, empty = auth disabled)

	// Export settings
	ExportInterval   time.Duration // WEFT_EXPORT_INTERVAL (default 5m; 0 = disabled)
	ExportS3Bucket   string        // WEFT_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // WEFT_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // WEFT_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // WEFT_EXPORT_S3_KEY (default "weft/workflows.jsonl")
	ExportFile       string        // WEFT_EXPORT_FILE (enables file export when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("WEFT_DATABASE_URL"),
		HTTPAddr:         envOrDefault("WEFT_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("WEFT_NATS_URL"),
		AuthToken:        os.Getenv("WEFT_AUTH_TOKEN"),
		ExportS3Bucket:   os.Getenv("WEFT_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("WEFT_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("WEFT_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("WEFT_EXPORT_S3_KEY", "weft/workflows.jsonl"),
		ExportFile:       os.Getenv("WEFT_EXPORT_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("WEFT_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("WEFT_EXPORT_INTERVAL", "5m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("WEFT_EXPORT_INTERVAL: %w", err)
		}
		c.ExportInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
