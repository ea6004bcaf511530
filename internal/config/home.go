// Where: internal/config/home.go
// What: Lab home directory discovery.
// Why: Centralize logic to find the homelab directory from env or the file system.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvLabHome overrides lab home discovery when set.
const EnvLabHome = "LAB_HOME"

// LabHome determines the homelab directory holding config.yaml and
// service definitions.
// Priority:
// 1. LAB_HOME environment variable (taken as-is)
// 2. Upward search from the working directory for homelab/config.yaml
func LabHome() (string, error) {
	if home := os.Getenv(EnvLabHome); home != "" {
		if abs, err := filepath.Abs(home); err == nil {
			return abs, nil
		}
		return home, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if home, ok := findLabHome(wd); ok {
		return home, nil
	}

	return "", fmt.Errorf("homelab directory not found above %s; set %s", wd, EnvLabHome)
}

// findLabHome searches upward from path for a homelab directory that
// contains config.yaml.
func findLabHome(path string) (string, bool) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, "homelab")
		if _, err := os.Stat(filepath.Join(candidate, "config.yaml")); err == nil {
			return candidate, true
		}
		// Allow running from inside the homelab directory itself.
		if filepath.Base(dir) == "homelab" {
			if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// ServiceDir returns the service definitions directory under home.
func ServiceDir(home string) string {
	return filepath.Join(home, "service")
}

// ConfigPath returns the config.yaml path under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.yaml")
}

// WorkDir returns the Pulumi working directory under home.
func WorkDir(home string) string {
	return filepath.Join(home, ".pulumi-work")
}
