// Where: internal/config/config.go
// What: Homelab config.yaml load and credential assembly.
// Why: One place resolves Proxmox and Pulumi settings, including op:// references.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pacorain/mono/internal/proxmox"
	"github.com/pacorain/mono/internal/secrets"
)

// Defaults applied when config.yaml leaves the fields empty.
const (
	DefaultNode     = "rainbow-road"
	DefaultStorage  = "local"
	DefaultUsername = "root@pam"
)

// Config is the homelab config.yaml document.
type Config struct {
	Proxmox ProxmoxConfig `yaml:"proxmox"`
	Pulumi  PulumiConfig  `yaml:"pulumi"`
	Secrets SecretsConfig `yaml:"secrets"`
}

// ProxmoxConfig carries connection settings for the Proxmox host.
// Values may be op:// references.
type ProxmoxConfig struct {
	Host       string `yaml:"host"`
	APIToken   string `yaml:"api_token"`
	APITokenID string `yaml:"api_token_id,omitempty"`
	Username   string `yaml:"username,omitempty"`
	Node       string `yaml:"node,omitempty"`
	Storage    string `yaml:"storage,omitempty"`
}

// PulumiConfig carries state backend settings.
type PulumiConfig struct {
	Backend            string `yaml:"backend"`
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
}

// SecretsConfig carries miscellaneous secrets.
type SecretsConfig struct {
	SSHPublicKey string `yaml:"ssh_public_key"`
}

// Backend is the resolved Pulumi backend configuration.
type Backend struct {
	URL string
	AWS AWSCredentials
}

// AWSCredentials is a static key pair for S3 backend access.
type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads and parses config.yaml at the given path.
func Load(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: config file not found at %s", secrets.ErrCredentials, path)
		}
		return Config{}, fmt.Errorf("%w: %v", secrets.ErrCredentials, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: invalid YAML in %s: %v", secrets.ErrCredentials, path, err)
	}
	return cfg, nil
}

// Node returns the configured Proxmox node name or the default.
func (c Config) Node() string {
	if c.Proxmox.Node != "" {
		return c.Proxmox.Node
	}
	return DefaultNode
}

// Storage returns the configured template storage name or the default.
func (c Config) Storage() string {
	if c.Proxmox.Storage != "" {
		return c.Proxmox.Storage
	}
	return DefaultStorage
}

// ProxmoxCredentials resolves the Proxmox connection credentials.
//
// A token of the form user@realm!tokenid=secret splits into username
// user@realm!tokenid and password secret. Otherwise an explicit
// api_token_id pairs with api_token as the secret. Failing both, the
// token is treated as a password for the configured (or default)
// username.
func (c Config) ProxmoxCredentials() (proxmox.Credentials, error) {
	host, err := secrets.Resolve(c.Proxmox.Host)
	if err != nil {
		return proxmox.Credentials{}, err
	}
	token, err := secrets.Resolve(c.Proxmox.APIToken)
	if err != nil {
		return proxmox.Credentials{}, err
	}

	endpoint := normalizeEndpoint(host)

	if user, rest, ok := strings.Cut(token, "!"); ok {
		if tokenID, secret, ok := strings.Cut(rest, "="); ok {
			return proxmox.Credentials{
				Endpoint: endpoint,
				Username: user + "!" + tokenID,
				Password: secret,
			}, nil
		}
	}

	if c.Proxmox.APITokenID != "" {
		tokenID, err := secrets.Resolve(c.Proxmox.APITokenID)
		if err != nil {
			return proxmox.Credentials{}, err
		}
		return proxmox.Credentials{
			Endpoint: endpoint,
			Username: tokenID,
			Password: token,
		}, nil
	}

	username := c.Proxmox.Username
	if username == "" {
		username = DefaultUsername
	}
	return proxmox.Credentials{
		Endpoint: endpoint,
		Username: username,
		Password: token,
	}, nil
}

// PulumiBackend resolves the backend URL and its AWS credentials.
func (c Config) PulumiBackend() (Backend, error) {
	url, err := secrets.Resolve(c.Pulumi.Backend)
	if err != nil {
		return Backend{}, err
	}
	accessKey, err := secrets.Resolve(c.Pulumi.AWSAccessKeyID)
	if err != nil {
		return Backend{}, err
	}
	secretKey, err := secrets.Resolve(c.Pulumi.AWSSecretAccessKey)
	if err != nil {
		return Backend{}, err
	}

	return Backend{
		URL: url,
		AWS: AWSCredentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
		},
	}, nil
}

// SSHPublicKey resolves the configured SSH public key.
func (c Config) SSHPublicKey() (string, error) {
	return secrets.Resolve(c.Secrets.SSHPublicKey)
}

// normalizeEndpoint defaults the scheme and API port for bare hosts.
func normalizeEndpoint(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return fmt.Sprintf("https://%s:8006", host)
}
