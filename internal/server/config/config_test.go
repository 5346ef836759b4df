package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr != ":8080" {
		t.Errorf("EndpointAddr = %q", cfg.EndpointAddr)
	}
	if cfg.PipelineMode != PipelineModeStub {
		t.Errorf("PipelineMode = %q, want stub", cfg.PipelineMode)
	}
	if cfg.AccessTokenValidityDuration != 15*time.Minute {
		t.Errorf("AccessTokenValidityDuration = %v", cfg.AccessTokenValidityDuration)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("RECAPD_ADDR", ":9999")
	t.Setenv("RECAPD_PIPELINE_MODE", PipelineModeLive)
	t.Setenv("RECAPD_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("RECAPD_ACCESS_TOKEN_TTL_BOGUS", "ignored")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddr != ":9999" {
		t.Errorf("EndpointAddr = %q", cfg.EndpointAddr)
	}
	if cfg.PipelineMode != PipelineModeLive {
		t.Errorf("PipelineMode = %q", cfg.PipelineMode)
	}
	if cfg.AccessTokenValidityDuration != 30*time.Minute {
		t.Errorf("AccessTokenValidityDuration = %v", cfg.AccessTokenValidityDuration)
	}
}

func TestParseEnv_InvalidDurationKeepsDefault(t *testing.T) {
	t.Setenv("RECAPD_ACCESS_TOKEN_TTL", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.AccessTokenValidityDuration != 15*time.Minute {
		t.Errorf("AccessTokenValidityDuration = %v, want default", cfg.AccessTokenValidityDuration)
	}
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"endpoint_addr": ":7070",
		"access_token_validity_duration": "20m",
		"pipeline_mode": "live"
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	os.Args = []string{"server", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	if cfg.EndpointAddr != ":7070" {
		t.Errorf("EndpointAddr = %q", cfg.EndpointAddr)
	}
	if cfg.AccessTokenValidityDuration != 20*time.Minute {
		t.Errorf("AccessTokenValidityDuration = %v", cfg.AccessTokenValidityDuration)
	}
	if cfg.PipelineMode != PipelineModeLive {
		t.Errorf("PipelineMode = %q", cfg.PipelineMode)
	}
	// Fields absent from the file keep their defaults.
	if cfg.DatabaseDSN == "" {
		t.Error("DatabaseDSN should keep its default")
	}
}
