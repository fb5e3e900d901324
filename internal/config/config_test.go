package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 5 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 5)
	}
	if cfg.Upload.MaxFileSize != 32<<20 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 32<<20)
	}
	if cfg.Matching.Threshold != 85 {
		t.Errorf("Matching.Threshold = %d, want %d", cfg.Matching.Threshold, 85)
	}
	if cfg.Matching.RecipeSheetIndex != 4 || cfg.Matching.SalesSheetIndex != 3 || cfg.Matching.PromotionSheetIndex != 0 {
		t.Errorf("sheet indexes = %d/%d/%d, want 4/3/0",
			cfg.Matching.RecipeSheetIndex, cfg.Matching.SalesSheetIndex, cfg.Matching.PromotionSheetIndex)
	}
	if cfg.Matching.SalesItemColumn != "item name" {
		t.Errorf("Matching.SalesItemColumn = %q, want %q", cfg.Matching.SalesItemColumn, "item name")
	}
	if cfg.Matching.SalesQuantityColumn != "units sold" {
		t.Errorf("Matching.SalesQuantityColumn = %q, want %q", cfg.Matching.SalesQuantityColumn, "units sold")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MATCH_THRESHOLD", "70")
	t.Setenv("SALES_ITEM_COLUMN", "Nombre")
	t.Setenv("SALES_QUANTITY_COLUMN", "Unidades vendidas")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Matching.Threshold != 70 {
		t.Errorf("Matching.Threshold = %d, want %d", cfg.Matching.Threshold, 70)
	}
	if cfg.Matching.SalesItemColumn != "Nombre" {
		t.Errorf("Matching.SalesItemColumn = %q, want %q", cfg.Matching.SalesItemColumn, "Nombre")
	}
	if cfg.Matching.SalesQuantityColumn != "Unidades vendidas" {
		t.Errorf("Matching.SalesQuantityColumn = %q, want %q", cfg.Matching.SalesQuantityColumn, "Unidades vendidas")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("RUN_MAX_CONCURRENT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Upload.MaxConcurrent != 3 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 3)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantMsg string
	}{
		{"non-integer port", "SERVER_PORT", "http", "SERVER_PORT"},
		{"bad duration", "UPLOAD_MAX_WAIT_TIME", "soon", "UPLOAD_MAX_WAIT_TIME"},
		{"threshold too high", "MATCH_THRESHOLD", "101", "MATCH_THRESHOLD"},
		{"negative threshold", "MATCH_THRESHOLD", "-1", "MATCH_THRESHOLD"},
		{"negative sheet index", "SALES_SHEET_INDEX", "-2", "SALES_SHEET_INDEX"},
		{"bad proxy cidr", "TRUSTED_PROXIES", "10.0.0.0/33", "TRUSTED_PROXIES"},
		{"bad proxy address", "TRUSTED_PROXIES", "10.0.0.300", "TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error for %s=%q", tt.env, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error should mention %s: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestLoad_BareProxyAddress(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "127.0.0.1, 10.0.0.0/8, ::1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Security.TrustedProxies) != 3 {
		t.Errorf("TrustedProxies = %v, want 3 entries", cfg.Security.TrustedProxies)
	}
}

func TestSetField_UnsupportedKind(t *testing.T) {
	var flag bool
	err := setField(reflect.ValueOf(&flag).Elem(), "true")
	if err == nil || !strings.Contains(err.Error(), "unsupported field type") {
		t.Errorf("setField(bool) error = %v, want unsupported field type", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("UPLOAD_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload: UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Minute},
		Matching: MatchingConfig{
			Threshold:           85,
			RecipeSheetIndex:    4,
			SalesSheetIndex:     3,
			SalesItemColumn:     "item name",
			SalesQuantityColumn: "units sold",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero concurrency", func(c *Config) { c.Upload.MaxConcurrent = 0 }, "UPLOAD_MAX_CONCURRENT"},
		{"blank item column", func(c *Config) { c.Matching.SalesItemColumn = "  " }, "SALES_ITEM_COLUMN"},
		{"blank quantity column", func(c *Config) { c.Matching.SalesQuantityColumn = "" }, "SALES_QUANTITY_COLUMN"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"threshold zero is allowed", func(c *Config) { c.Matching.Threshold = 0 }, ""},
		{"bare proxy address is allowed", func(c *Config) { c.Security.TrustedProxies = []string{"192.168.1.10"} }, ""},
		{"invalid proxy", func(c *Config) { c.Security.TrustedProxies = []string{"proxy.local"} }, "TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error should mention %s: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	str := cfg.String()
	for _, want := range []string{"Threshold: 85", `"item name"`, "recipes=4"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %s, want it to contain %s", str, want)
		}
	}
}
