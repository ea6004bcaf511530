// Where: internal/proxmox/client.go
// What: Minimal Proxmox VE API client for storage content listing.
// Why: Template resolution needs the live vztmpl inventory of a node's storage.
package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Credentials for the Proxmox VE API. Username is the full API token id
// (user@realm!tokenid) and Password its secret.
type Credentials struct {
	Endpoint string
	Username string
	Password string
}

// Client talks to a single Proxmox VE endpoint.
type Client struct {
	HTTP        *http.Client
	Credentials Credentials
}

// NewClient builds a client for the given credentials. TLS verification
// is disabled: homelab PVE hosts run self-signed certificates.
func NewClient(creds Credentials) *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		Credentials: creds,
	}
}

// storageContentResponse is the {"data": [...]} envelope the PVE API
// wraps every payload in.
type storageContentResponse struct {
	Data []struct {
		Volid string `json:"volid"`
	} `json:"data"`
}

// ListTemplates returns the sorted file names of container templates
// available on the given node and storage.
func (c *Client) ListTemplates(ctx context.Context, node, storage string) ([]string, error) {
	url := fmt.Sprintf(
		"%s/api2/json/nodes/%s/storage/%s/content?content=vztmpl",
		c.Credentials.Endpoint, node, storage,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolver, err)
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list templates: %v", ErrResolver, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: storage content request returned %s", ErrResolver, resp.Status)
	}

	var payload storageContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: unexpected response from storage endpoint: %v", ErrResolver, err)
	}

	var templates []string
	for _, item := range payload.Data {
		// volid format: "local:vztmpl/alpine-3.20-default_20240908_amd64.tar.xz"
		if idx := strings.LastIndex(item.Volid, "/"); idx >= 0 {
			templates = append(templates, item.Volid[idx+1:])
		}
	}
	sort.Strings(templates)
	return templates, nil
}

// authHeader builds the PVEAPIToken authorization value:
// PVEAPIToken=USER@REALM!TOKENID=SECRET.
func (c *Client) authHeader() string {
	return fmt.Sprintf("PVEAPIToken=%s=%s", c.Credentials.Username, c.Credentials.Password)
}
