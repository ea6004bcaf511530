// Where: internal/secrets/op_test.go
// What: Tests for secret reference resolution.
// Why: Ensure plain values pass through and op:// references hit the reader.
package secrets

import (
	"errors"
	"fmt"
	"testing"
)

func TestResolvePlainValue(t *testing.T) {
	got, err := Resolve("not-a-secret")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "not-a-secret" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveEmptyValue(t *testing.T) {
	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestResolveReference(t *testing.T) {
	orig := readReference
	defer func() { readReference = orig }()

	var seen string
	readReference = func(reference string) (string, error) {
		seen = reference
		return "s3cret", nil
	}

	got, err := Resolve("op://Homelab/Proxmox/credential")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("Resolve = %q", got)
	}
	if seen != "op://Homelab/Proxmox/credential" {
		t.Errorf("readReference got %q", seen)
	}
}

func TestResolveReferenceFailure(t *testing.T) {
	orig := readReference
	defer func() { readReference = orig }()

	readReference = func(reference string) (string, error) {
		return "", fmt.Errorf("%w: failed to read 1Password reference %q", ErrCredentials, reference)
	}

	_, err := Resolve("op://Homelab/missing/field")
	if !errors.Is(err, ErrCredentials) {
		t.Fatalf("Resolve error = %v, want ErrCredentials", err)
	}
}
