package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site != "civwiki.org" || cfg.PageSuffix != " (CivMC)" {
		t.Fatalf("defaults: %#v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	body := "site: wiki.example.org\nregistry_root: /srv/registries\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site != "wiki.example.org" {
		t.Fatalf("site %q", cfg.Site)
	}
	if cfg.RegistryRoot != "/srv/registries" {
		t.Fatalf("root %q", cfg.RegistryRoot)
	}
	// Unset keys keep defaults.
	if cfg.PageSuffix != " (CivMC)" {
		t.Fatalf("suffix %q", cfg.PageSuffix)
	}
}

func TestLoad_InvalidFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	if err := os.WriteFile(path, []byte("site: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("CIVWIKI_USERNAME", "bot")
	t.Setenv("CIVWIKI_PASSWORD", "secret")
	creds, err := CredentialsFromEnv()
	if err != nil {
		t.Fatalf("creds: %v", err)
	}
	if creds.Username != "bot" || creds.Password != "secret" {
		t.Fatalf("creds %#v", creds)
	}

	t.Setenv("CIVWIKI_PASSWORD", "")
	if _, err := CredentialsFromEnv(); err == nil {
		t.Fatalf("missing password must fail")
	}
}
