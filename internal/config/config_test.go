// Where: internal/config/config_test.go
// What: Tests for config loading, credential assembly, and home discovery.
// Why: Lock the token parsing variants and endpoint defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pacorain/mono/internal/secrets"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config.yaml: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `proxmox:
  host: pve.internal
  api_token: root@pam!lab=sekret
  node: node1
  storage: fast
pulumi:
  backend: s3://state-bucket
  aws_access_key_id: AKIAEXAMPLE
  aws_secret_access_key: wJalrEXAMPLE
secrets:
  ssh_public_key: ssh-ed25519 AAAA
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Proxmox.Host != "pve.internal" {
		t.Errorf("Host = %q", cfg.Proxmox.Host)
	}
	if cfg.Node() != "node1" || cfg.Storage() != "fast" {
		t.Errorf("Node/Storage = %q/%q", cfg.Node(), cfg.Storage())
	}
	if cfg.Pulumi.Backend != "s3://state-bucket" {
		t.Errorf("Backend = %q", cfg.Pulumi.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, secrets.ErrCredentials) {
		t.Fatalf("Load error = %v, want ErrCredentials", err)
	}
}

func TestNodeStorageDefaults(t *testing.T) {
	var cfg Config
	if cfg.Node() != DefaultNode {
		t.Errorf("Node = %q, want %q", cfg.Node(), DefaultNode)
	}
	if cfg.Storage() != DefaultStorage {
		t.Errorf("Storage = %q, want %q", cfg.Storage(), DefaultStorage)
	}
}

func TestProxmoxCredentialsFullToken(t *testing.T) {
	cfg := Config{Proxmox: ProxmoxConfig{
		Host:     "pve.internal",
		APIToken: "root@pam!lab=sekret",
	}}

	creds, err := cfg.ProxmoxCredentials()
	if err != nil {
		t.Fatalf("ProxmoxCredentials returned error: %v", err)
	}
	if creds.Endpoint != "https://pve.internal:8006" {
		t.Errorf("Endpoint = %q", creds.Endpoint)
	}
	if creds.Username != "root@pam!lab" {
		t.Errorf("Username = %q", creds.Username)
	}
	if creds.Password != "sekret" {
		t.Errorf("Password = %q", creds.Password)
	}
}

func TestProxmoxCredentialsExplicitTokenID(t *testing.T) {
	cfg := Config{Proxmox: ProxmoxConfig{
		Host:       "https://pve.internal:8006",
		APIToken:   "sekret",
		APITokenID: "root@pam!lab",
	}}

	creds, err := cfg.ProxmoxCredentials()
	if err != nil {
		t.Fatalf("ProxmoxCredentials returned error: %v", err)
	}
	if creds.Endpoint != "https://pve.internal:8006" {
		t.Errorf("Endpoint = %q", creds.Endpoint)
	}
	if creds.Username != "root@pam!lab" || creds.Password != "sekret" {
		t.Errorf("Username/Password = %q/%q", creds.Username, creds.Password)
	}
}

func TestProxmoxCredentialsPasswordFallback(t *testing.T) {
	cfg := Config{Proxmox: ProxmoxConfig{
		Host:     "pve.internal",
		APIToken: "plainpassword",
	}}

	creds, err := cfg.ProxmoxCredentials()
	if err != nil {
		t.Fatalf("ProxmoxCredentials returned error: %v", err)
	}
	if creds.Username != DefaultUsername {
		t.Errorf("Username = %q, want %q", creds.Username, DefaultUsername)
	}
	if creds.Password != "plainpassword" {
		t.Errorf("Password = %q", creds.Password)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct{ in, want string }{
		{"pve.internal", "https://pve.internal:8006"},
		{"https://pve.internal:8006", "https://pve.internal:8006"},
		{"http://pve.internal", "http://pve.internal"},
	}
	for _, tc := range cases {
		if got := normalizeEndpoint(tc.in); got != tc.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPulumiBackend(t *testing.T) {
	cfg := Config{Pulumi: PulumiConfig{
		Backend:            "s3://state-bucket",
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "wJalrEXAMPLE",
	}}

	backend, err := cfg.PulumiBackend()
	if err != nil {
		t.Fatalf("PulumiBackend returned error: %v", err)
	}
	if backend.URL != "s3://state-bucket" {
		t.Errorf("URL = %q", backend.URL)
	}
	if backend.AWS.AccessKeyID != "AKIAEXAMPLE" || backend.AWS.SecretAccessKey != "wJalrEXAMPLE" {
		t.Errorf("AWS = %+v", backend.AWS)
	}
}

func TestLabHomeEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvLabHome, home)

	got, err := LabHome()
	if err != nil {
		t.Fatalf("LabHome returned error: %v", err)
	}
	if got != home {
		t.Errorf("LabHome = %q, want %q", got, home)
	}
}

func TestFindLabHome(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "homelab")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, home, "proxmox:\n  host: pve\n")
	nested := filepath.Join(root, "app", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok := findLabHome(nested)
	if !ok {
		t.Fatalf("findLabHome found nothing under %s", nested)
	}
	if got != home {
		t.Errorf("findLabHome = %q, want %q", got, home)
	}

	// Works from inside the homelab directory itself.
	got, ok = findLabHome(home)
	if !ok || got != home {
		t.Errorf("findLabHome(home) = %q, %v", got, ok)
	}
}

func TestHomePaths(t *testing.T) {
	if got := ServiceDir("/lab"); got != filepath.Join("/lab", "service") {
		t.Errorf("ServiceDir = %q", got)
	}
	if got := ConfigPath("/lab"); got != filepath.Join("/lab", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := WorkDir("/lab"); got != filepath.Join("/lab", ".pulumi-work") {
		t.Errorf("WorkDir = %q", got)
	}
}
