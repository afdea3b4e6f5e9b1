package config

import (
	"strings"
	"testing"
)

func setAll(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URI", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "taskade")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
}

func TestLoad(t *testing.T) {
	setAll(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("got MongoURI %q", cfg.MongoURI)
	}
	if cfg.DBName != "taskade" {
		t.Errorf("got DBName %q", cfg.DBName)
	}
	if cfg.TokenSecret != "secret" {
		t.Errorf("got TokenSecret %q", cfg.TokenSecret)
	}
	if cfg.Port != "5000" {
		t.Errorf("got Port %q, want default 5000", cfg.Port)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	for _, missing := range []string{"DB_URI", "DB_NAME", "JWT_SECRET"} {
		t.Run(missing, func(t *testing.T) {
			setAll(t)
			t.Setenv(missing, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), missing) {
				t.Errorf("error %q should name %s", err, missing)
			}
		})
	}
}

func TestLoadCustomPort(t *testing.T) {
	setAll(t)
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("got Port %q, want 8080", cfg.Port)
	}
}
