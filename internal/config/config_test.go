package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.DBPath != filepath.Join(dir, "fitadmin.db") {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.LogPath != filepath.Join(dir, "fitadmin.log") {
		t.Fatalf("log path = %q", cfg.LogPath)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout())
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	in := Config{BaseURL: "http://localhost:9000/admin/", DBPath: "/tmp/x.db", LogPath: "/tmp/x.log", RequestTimeout: 3}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.BaseURL != "http://localhost:9000/admin" {
		t.Fatalf("trailing slash should be trimmed, got %q", out.BaseURL)
	}
	if out.DBPath != "/tmp/x.db" || out.LogPath != "/tmp/x.log" {
		t.Fatalf("paths not preserved: %+v", out)
	}
	if out.Timeout() != 3*time.Second {
		t.Fatalf("timeout = %v", out.Timeout())
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv(BaseURLEnv, "http://env.example/admin")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "http://env.example/admin" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTimeoutDisabled(t *testing.T) {
	cfg := Config{RequestTimeout: 0}
	if cfg.Timeout() != 0 {
		t.Fatalf("timeout = %v", cfg.Timeout())
	}
}
