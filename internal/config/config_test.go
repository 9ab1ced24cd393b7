package config

import (
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Mailer.Port != 587 {
		t.Errorf("SMTP port = %d, want 587", cfg.Mailer.Port)
	}
	if cfg.DispatchWorkers != 1 {
		t.Errorf("DispatchWorkers = %d, want 1", cfg.DispatchWorkers)
	}
	if !cfg.InitDBOnStartup {
		t.Error("InitDBOnStartup should default to true")
	}
}

func TestLoadConfig_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example.com:5432/clinic?sslmode=require")
	t.Setenv("DB_HOST", "ignored-host")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Database.DSN != "postgres://u:p@db.example.com:5432/clinic?sslmode=require" {
		t.Errorf("DSN = %q, want the DATABASE_URL value", cfg.Database.DSN)
	}
}

func TestLoadConfig_SenderFallsBackToUsername(t *testing.T) {
	t.Setenv("SMTP_USERNAME", "clinic@example.com")
	t.Setenv("EMAIL_SENDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Mailer.Sender != "clinic@example.com" {
		t.Errorf("Sender = %q, want the SMTP username", cfg.Mailer.Sender)
	}
}

func TestLoadConfig_InvalidNumbersRejected(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Error("invalid SMTP_PORT accepted")
	}
}

func TestLoadConfig_WorkerFloor(t *testing.T) {
	t.Setenv("DISPATCH_WORKERS", "0")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DispatchWorkers != 1 {
		t.Errorf("DispatchWorkers = %d, want floor of 1", cfg.DispatchWorkers)
	}
}
