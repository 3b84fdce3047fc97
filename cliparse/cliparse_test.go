// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_KEY_SALT", "")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY_SALT", "from-env")
	os.Unsetenv("DATABASE_URL")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file::memory:\nADMIN_KEY_SALT=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file::memory:" {
		t.Errorf("expected DATABASE_URL from file, got %q", cfg.DatabaseURL)
	}
	// Existing environment wins over the file
	if cfg.AdminKeySalt != "from-env" {
		t.Errorf("expected env salt to win, got %q", cfg.AdminKeySalt)
	}
}

func TestParseFlags_MissingValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY_SALT", "")

	if _, err := ParseFlags([]string{"-admin-salt", "s"}); err == nil {
		t.Error("expected error without database URL")
	}
	if _, err := ParseFlags([]string{"-d", "file:x.db"}); err == nil {
		t.Error("expected error without admin salt")
	}
	if _, err := ParseFlags([]string{"-d", "x", "-admin-salt", "s", "-t", "mysql"}); err == nil {
		t.Error("expected error for unsupported database type")
	}
}
