package config

import (
	"os"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	// Switch to a temp directory to avoid loading a real .env
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	})
}

func requiredEnv() map[string]string {
	return map[string]string{
		"SERVER_PORT":      "8080",
		"MINIO_ENDPOINT":   "localhost:9000",
		"MINIO_ACCESS_KEY": "minioadmin",
		"MINIO_SECRET_KEY": "minioadmin",
		"MINIO_BUCKET":     "portfolio",
		"SESSION_SECRET":   "s3cr3t",
	}
}

func TestLoad_Success(t *testing.T) {
	chdirTemp(t)

	reqs := requiredEnv()
	for k, v := range reqs {
		t.Setenv(k, v)
	}
	t.Setenv("ADMIN_1_EMAIL", "Coach@Example.com")
	t.Setenv("ADMIN_1_NAME", "Coach")
	t.Setenv("ADMIN_1_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("ADMIN_2_EMAIL", "")
	t.Setenv("ADMIN_3_EMAIL", "athlete@example.com")
	t.Setenv("ADMIN_3_PASSWORD_HASH", "$2a$10$zyxwvutsrqponmlkjihgfe")
	t.Setenv("INSTAGRAM_POST_URLS", "https://www.instagram.com/p/AAA/, ,https://www.instagram.com/p/BBB/")
	t.Setenv("PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("ADMIN_URL_SECRET", "/backstage/")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected %d, got %d", 8080, cfg.ServerPort)
	}
	if cfg.MinioBucket != "portfolio" {
		t.Errorf("MinioBucket: expected %q, got %q", "portfolio", cfg.MinioBucket)
	}
	if cfg.PublicBaseURL != "https://cdn.example.com" {
		t.Errorf("PublicBaseURL: expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
	if cfg.AdminURLSecret != "backstage" {
		t.Errorf("AdminURLSecret: expected %q, got %q", "backstage", cfg.AdminURLSecret)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL: expected %v, got %v", 2*time.Hour, cfg.SessionTTL)
	}
	if len(cfg.AdminAccounts) != 2 {
		t.Fatalf("AdminAccounts: expected 2, got %d", len(cfg.AdminAccounts))
	}
	if cfg.AdminAccounts[0].Email != "coach@example.com" || cfg.AdminAccounts[0].Name != "Coach" {
		t.Errorf("first account = %+v", cfg.AdminAccounts[0])
	}
	if cfg.AdminAccounts[1].Name != "athlete@example.com" {
		t.Errorf("name should default to email, got %q", cfg.AdminAccounts[1].Name)
	}
	if len(cfg.InstagramPostURLs) != 2 {
		t.Errorf("InstagramPostURLs: expected 2 entries, got %v", cfg.InstagramPostURLs)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	for missing := range requiredEnv() {
		t.Run(missing, func(t *testing.T) {
			chdirTemp(t)

			for k, v := range requiredEnv() {
				if k == missing {
					t.Setenv(k, "")
					if err := os.Unsetenv(k); err != nil {
						t.Fatalf("could not unset key %s in env: %v", k, err)
					}
				} else {
					t.Setenv(k, v)
				}
			}

			cfg, err := Load()
			if err == nil {
				t.Fatalf("expected error for missing %s, got nil", missing)
			}
			if want := missing + " is required"; err.Error() != want {
				t.Errorf("error = %q; want %q", err.Error(), want)
			}
			if cfg != nil {
				t.Errorf("expected cfg nil on error, got %#v", cfg)
			}
		})
	}
}

func TestLoad_AdminWithoutHash(t *testing.T) {
	chdirTemp(t)
	for k, v := range requiredEnv() {
		t.Setenv(k, v)
	}
	t.Setenv("ADMIN_2_EMAIL", "nohash@example.com")
	t.Setenv("ADMIN_2_PASSWORD_HASH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for admin without password hash")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	for k, v := range requiredEnv() {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.SecureCookies {
		t.Error("SecureCookies should default to true")
	}
	if !cfg.RequestLogging {
		t.Error("RequestLogging should default to true")
	}
	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q; want content", cfg.ContentDir)
	}
	if cfg.SweepSchedule != "@every 1h" {
		t.Errorf("SweepSchedule = %q; want @every 1h", cfg.SweepSchedule)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("SessionTTL = %v; want 8h", cfg.SessionTTL)
	}
	if len(cfg.AdminAccounts) != 0 {
		t.Errorf("expected no admin account, got %v", cfg.AdminAccounts)
	}
}

func TestLoadUploader(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UPLOADER_API_URL", "https://portfolio.example.com/")
	t.Setenv("UPLOADER_EMAIL", "coach@example.com")
	t.Setenv("UPLOADER_PASSWORD", "pw")
	t.Setenv("ADMIN_URL_SECRET", "/backstage")

	cfg, err := LoadUploader()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIURL != "https://portfolio.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.AdminURLSecret != "backstage" {
		t.Errorf("AdminURLSecret = %q", cfg.AdminURLSecret)
	}
	if cfg.ImageFormat != "jpeg" || cfg.HEICCommand != "heif-convert" || cfg.GeocoderLanguage != "fr" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadUploader_Missing(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UPLOADER_API_URL", "https://portfolio.example.com")
	t.Setenv("UPLOADER_EMAIL", "coach@example.com")

	if _, err := LoadUploader(); err == nil || err.Error() != "UPLOADER_PASSWORD is required" {
		t.Fatalf("expected missing password error, got %v", err)
	}
}
