package config

import (
	"testing"
	"time"
)

// exportEnvVars lists all export-related env vars that must be cleared between tests.
var exportEnvVars = []string{
	"WEFT_EXPORT_INTERVAL", "WEFT_EXPORT_S3_BUCKET", "WEFT_EXPORT_S3_ENDPOINT",
	"WEFT_EXPORT_S3_REGION", "WEFT_EXPORT_S3_KEY", "WEFT_EXPORT_FILE",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"WEFT_DATABASE_URL", "WEFT_HTTP_ADDR", "WEFT_NATS_URL", "WEFT_AUTH_TOKEN"} {
		t.Setenv(key, "")
	}
	for _, key := range exportEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"WEFT_DATABASE_URL": "postgres://localhost/weft"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"WEFT_DATABASE_URL": "postgres://db:5432/weft",
				"WEFT_HTTP_ADDR":    ":3000",
				"WEFT_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["WEFT_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["WEFT_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadExportDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WEFT_DATABASE_URL", "postgres://localhost/weft")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExportInterval != 5*time.Minute {
		t.Errorf("ExportInterval = %v, want 5m", cfg.ExportInterval)
	}
	if cfg.ExportS3Region != "us-east-1" {
		t.Errorf("ExportS3Region = %q, want %q", cfg.ExportS3Region, "us-east-1")
	}
	if cfg.ExportS3Key != "weft/workflows.jsonl" {
		t.Errorf("ExportS3Key = %q, want %q", cfg.ExportS3Key, "weft/workflows.jsonl")
	}
}

func TestLoadExportCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WEFT_DATABASE_URL", "postgres://localhost/weft")
	t.Setenv("WEFT_EXPORT_INTERVAL", "10m")
	t.Setenv("WEFT_EXPORT_S3_BUCKET", "my-bucket")
	t.Setenv("WEFT_EXPORT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("WEFT_EXPORT_S3_REGION", "eu-west-1")
	t.Setenv("WEFT_EXPORT_S3_KEY", "custom/key.jsonl")
	t.Setenv("WEFT_EXPORT_FILE", "/var/lib/weft/export.jsonl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExportInterval != 10*time.Minute {
		t.Errorf("ExportInterval = %v, want 10m", cfg.ExportInterval)
	}
	if cfg.ExportS3Bucket != "my-bucket" {
		t.Errorf("ExportS3Bucket = %q", cfg.ExportS3Bucket)
	}
	if cfg.ExportS3Endpoint != "http://minio:9000" {
		t.Errorf("ExportS3Endpoint = %q", cfg.ExportS3Endpoint)
	}
	if cfg.ExportS3Region != "eu-west-1" {
		t.Errorf("ExportS3Region = %q", cfg.ExportS3Region)
	}
	if cfg.ExportS3Key != "custom/key.jsonl" {
		t.Errorf("ExportS3Key = %q", cfg.ExportS3Key)
	}
	if cfg.ExportFile != "/var/lib/weft/export.jsonl" {
		t.Errorf("ExportFile = %q", cfg.ExportFile)
	}
}

func TestLoadExportInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WEFT_DATABASE_URL", "postgres://localhost/weft")
	t.Setenv("WEFT_EXPORT_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid WEFT_EXPORT_INTERVAL")
	}
}

func TestLoadExportDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WEFT_DATABASE_URL", "postgres://localhost/weft")
	t.Setenv("WEFT_EXPORT_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExportInterval != 0 {
		t.Errorf("ExportInterval = %v, want 0 (disabled)", cfg.ExportInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
