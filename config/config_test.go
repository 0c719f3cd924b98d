package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
engine:
  level: 0.9
  replicates: 200
  seed: 7
logging:
  level: debug
runlog:
  backend: jsonl
  path: runs.jsonl
metrics:
  prometheus_enabled: true
  prometheus_port: "9102"
server:
  addr: ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Level != 0.9 || cfg.Engine.Replicates != 200 || cfg.Engine.Seed != 7 {
		t.Fatalf("engine config %+v", cfg.Engine)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level %q", cfg.Logging.Level)
	}
	if cfg.RunLog.Backend != "jsonl" || cfg.RunLog.Path != "runs.jsonl" {
		t.Fatalf("runlog config %+v", cfg.RunLog)
	}
	if !cfg.Metrics.PrometheusEnabled || cfg.Metrics.PrometheusPort != "9102" {
		t.Fatalf("metrics config %+v", cfg.Metrics)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("server addr %q", cfg.Server.Addr)
	}
}

func TestLoadJSONWithDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"engine": {"replicates": 50}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Level != 0.95 {
		t.Fatalf("default level %v, want 0.95", cfg.Engine.Level)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("default log level %q", cfg.Logging.Level)
	}
	if cfg.RunLog.Backend != "none" {
		t.Fatalf("default runlog backend %q", cfg.RunLog.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("default server addr %q", cfg.Server.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "engine:\n  level: 0.9\n")
	t.Setenv("SP_ENGINE__LEVEL", "0.8")
	t.Setenv("SP_LOGGING__LEVEL", "warn")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Level != 0.8 {
		t.Fatalf("env override level %v, want 0.8", cfg.Engine.Level)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("env override log level %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"level.yaml":   "engine:\n  level: 1.5\n",
		"backend.yaml": "runlog:\n  backend: mongo\n",
		"loglvl.yaml":  "logging:\n  level: shout\n",
	}
	for name, content := range cases {
		path := writeConfig(t, name, content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
