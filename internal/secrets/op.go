// Where: internal/secrets/op.go
// What: Secret reference resolution via the 1Password CLI.
// Why: config.yaml stores op:// references instead of plaintext secrets.
package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCredentials marks a failed secret or credential lookup.
var ErrCredentials = errors.New("credentials error")

// Prefix marking a value as a 1Password secret reference.
const referencePrefix = "op://"

// readReference is a seam for tests; it shells out to `op read`.
var readReference = func(reference string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("op", "read", reference)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf(
				"%w: 1Password CLI (op) not found, install it from https://developer.1password.com/docs/cli/get-started/",
				ErrCredentials,
			)
		}
		return "", fmt.Errorf(
			"%w: failed to read 1Password reference %q: %s",
			ErrCredentials, reference, strings.TrimSpace(stderr.String()),
		)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Resolve returns the value itself, or the referenced secret when the
// value is an op:// reference.
func Resolve(value string) (string, error) {
	if strings.HasPrefix(value, referencePrefix) {
		return readReference(value)
	}
	return value, nil
}
