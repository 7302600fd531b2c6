package config

import "testing"

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("DBDriver = %s", cfg.DBDriver)
	}
	if cfg.CalendarUnitsPerHour != 64 {
		t.Fatalf("CalendarUnitsPerHour = %v", cfg.CalendarUnitsPerHour)
	}
	if cfg.SyncEnabled() {
		t.Fatalf("sync enabled without Supabase credentials")
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("GetHTTPAddr = %s", cfg.GetHTTPAddr())
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("MISSION_CONTROL_HTTP_PORT", "9191")
	t.Setenv("MISSION_CONTROL_DB_DRIVER", "postgres")
	t.Setenv("MISSION_CONTROL_POSTGRES_DSN", "postgres://localhost/mission")
	t.Setenv("MISSION_CONTROL_SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("MISSION_CONTROL_SUPABASE_SERVICE_ROLE_KEY", "key")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Fatalf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("DBDriver = %s", cfg.DBDriver)
	}
	if !cfg.SyncEnabled() {
		t.Fatalf("sync not enabled with credentials set")
	}
}

func TestNew_RejectsBadDriver(t *testing.T) {
	t.Setenv("MISSION_CONTROL_DB_DRIVER", "mysql")
	if _, err := New(); err == nil {
		t.Fatalf("unknown driver accepted")
	}
}

func TestNew_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("MISSION_CONTROL_DB_DRIVER", "postgres")
	t.Setenv("MISSION_CONTROL_POSTGRES_DSN", "")
	if _, err := New(); err == nil {
		t.Fatalf("postgres without DSN accepted")
	}
}
