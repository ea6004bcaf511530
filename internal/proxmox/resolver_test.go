// Where: internal/proxmox/resolver_test.go
// What: Tests for template resolution and the inventory client.
// Why: Pin the last-match selection, error reporting, and listing cache.
package proxmox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolvePicksLastMatch(t *testing.T) {
	inventory := []string{
		"alpine-3.18-default_20230607_amd64.tar.xz",
		"alpine-3.20-default_20240908_amd64.tar.xz",
		"debian-12-standard_12.7-1_amd64.tar.zst",
	}

	got, err := Resolve("alpine-3.*", inventory, "local")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := "local:vztmpl/alpine-3.20-default_20240908_amd64.tar.xz"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	got, err := Resolve("ALPINE-*", []string{"alpine-3.20.tar.xz"}, "local")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "local:vztmpl/alpine-3.20.tar.xz" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	inventory := []string{"debian-12.tar.zst", "ubuntu-24.04.tar.zst"}

	_, err := Resolve("alpine-*", inventory, "local")
	if !errors.Is(err, ErrResolver) {
		t.Fatalf("Resolve error = %v, want ErrResolver", err)
	}
	for _, name := range inventory {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q missing available template %q", err, name)
		}
	}
}

func TestResolveNoMatchLargeInventoryTruncated(t *testing.T) {
	var inventory []string
	for i := 0; i < 8; i++ {
		inventory = append(inventory, fmt.Sprintf("template-%d.tar.xz", i))
	}

	_, err := Resolve("alpine-*", inventory, "local")
	if !errors.Is(err, ErrResolver) {
		t.Fatalf("Resolve error = %v, want ErrResolver", err)
	}
	if !strings.Contains(err.Error(), "(8 total)") {
		t.Errorf("error %q missing truncation summary", err)
	}
	if strings.Contains(err.Error(), "template-6") {
		t.Errorf("error %q lists more than five templates", err)
	}
}

func TestResolveEmptyInventory(t *testing.T) {
	_, err := Resolve("alpine-*", nil, "local")
	if !errors.Is(err, ErrResolver) {
		t.Fatalf("Resolve error = %v, want ErrResolver", err)
	}
	if !strings.Contains(err.Error(), "none") {
		t.Errorf("error %q missing empty-inventory marker", err)
	}
}

func TestResolveBadPattern(t *testing.T) {
	_, err := Resolve("[", []string{"alpine.tar.xz"}, "local")
	if !errors.Is(err, ErrResolver) {
		t.Fatalf("Resolve error = %v, want ErrResolver", err)
	}
}

func TestResolverCachesInventory(t *testing.T) {
	var requests int
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "PVEAPIToken=root@pam!lab=secret" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `{"data":[
			{"volid":"local:vztmpl/alpine-3.18-default_20230607_amd64.tar.xz"},
			{"volid":"local:vztmpl/alpine-3.20-default_20240908_amd64.tar.xz"}
		]}`)
	}))
	defer server.Close()

	client := NewClient(Credentials{
		Endpoint: server.URL,
		Username: "root@pam!lab",
		Password: "secret",
	})
	resolver := NewResolver(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := resolver.Resolve(ctx, "alpine-3.*", "node1", "local")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got != "local:vztmpl/alpine-3.20-default_20240908_amd64.tar.xz" {
			t.Errorf("Resolve = %q", got)
		}
	}

	if requests != 1 {
		t.Errorf("storage listing fetched %d times, want 1", requests)
	}
}

func TestListTemplatesHTTPError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such storage", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Credentials{Endpoint: server.URL, Username: "u", Password: "p"})
	_, err := client.ListTemplates(context.Background(), "node1", "missing")
	if !errors.Is(err, ErrResolver) {
		t.Fatalf("ListTemplates error = %v, want ErrResolver", err)
	}
}

func TestListTemplatesSortsNames(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"volid":"local:vztmpl/debian-12.tar.zst"},
			{"volid":"local:vztmpl/alpine-3.20.tar.xz"}
		]}`)
	}))
	defer server.Close()

	client := NewClient(Credentials{Endpoint: server.URL, Username: "u", Password: "p"})
	templates, err := client.ListTemplates(context.Background(), "node1", "local")
	if err != nil {
		t.Fatalf("ListTemplates returned error: %v", err)
	}
	if len(templates) != 2 || templates[0] != "alpine-3.20.tar.xz" || templates[1] != "debian-12.tar.zst" {
		t.Errorf("ListTemplates = %v", templates)
	}
}
