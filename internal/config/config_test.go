package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:               "8080",
		ShutdownTimeout:    5 * time.Second,
		PayloadDir:         t.TempDir(),
		LogLevel:           "info",
		LogFormat:          "text",
		TableSessionTTL:    30 * time.Minute,
		TableSessionMax:    100,
		RateLimitPerMinute: 60,
		Locale:             "de-DE",
		Currency:           "€",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing payload dir",
			modify:      func(c *Config) { c.PayloadDir = filepath.Join(c.PayloadDir, "missing") },
			wantErr:     true,
			errorString: "is not readable",
		},
		{
			name:        "empty payload dir",
			modify:      func(c *Config) { c.PayloadDir = "" },
			wantErr:     true,
			errorString: "payload directory cannot be empty",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "session ttl too short",
			modify:      func(c *Config) { c.TableSessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid table session TTL 1s",
		},
		{
			name:        "invalid locale",
			modify:      func(c *Config) { c.Locale = "not a locale!" },
			wantErr:     true,
			errorString: "invalid locale",
		},
		{
			name:        "zero rate limit",
			modify:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "0"
	cfg.LogFormat = "xml"
	cfg.TableSessionMax = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("expected 3 problems, got %d: %v", got, err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TABLE_SESSION_TTL", "45m")
	t.Setenv("TABLE_SESSION_MAX", "not-a-number")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.TableSessionTTL != 45*time.Minute {
		t.Errorf("TableSessionTTL = %v", cfg.TableSessionTTL)
	}
	if cfg.TableSessionMax != 1000 {
		t.Errorf("TableSessionMax = %d, want default", cfg.TableSessionMax)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}
