// Where: internal/proxmox/resolver.go
// What: Template pattern resolution against the storage inventory.
// Why: service.yaml names templates by glob; deployments need a concrete file id.
package proxmox

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrResolver marks a failed template resolution: no matching template,
// an unreachable endpoint, or a malformed response.
var ErrResolver = errors.New("template resolver error")

// Match reports whether a template file name matches the glob pattern,
// case-insensitively.
func Match(pattern, name string) (bool, error) {
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(name))
	if err != nil {
		return false, fmt.Errorf("%w: bad template pattern %q: %v", ErrResolver, pattern, err)
	}
	return ok, nil
}

// Resolve selects the lexicographically last inventory entry matching
// pattern and returns its volume id on the given storage. Last-sorted is
// a "latest version" heuristic, not a guarantee: "alpine-3.9" sorts
// after "alpine-3.20".
func Resolve(pattern string, inventory []string, storage string) (string, error) {
	var matches []string
	for _, name := range inventory {
		ok, err := Match(pattern, name)
		if err != nil {
			return "", err
		}
		if ok {
			matches = append(matches, name)
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf(
			"%w: no template matching pattern %q found, available templates: %s",
			ErrResolver, pattern, summarizeInventory(inventory),
		)
	}

	selected := matches[len(matches)-1]
	return fmt.Sprintf("%s:vztmpl/%s", storage, selected), nil
}

func summarizeInventory(inventory []string) string {
	if len(inventory) == 0 {
		return "none"
	}
	if len(inventory) <= 5 {
		return strings.Join(inventory, ", ")
	}
	return fmt.Sprintf("%s, ... (%d total)", strings.Join(inventory[:5], ", "), len(inventory))
}

// Resolver resolves template patterns and memoizes the storage listing
// per (node, storage) for the life of the process. There is no
// invalidation; the CLI run is short.
type Resolver struct {
	client *Client
	cache  map[cacheKey][]string
}

type cacheKey struct {
	node    string
	storage string
}

// NewResolver builds a caching resolver over the given client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{
		client: client,
		cache:  map[cacheKey][]string{},
	}
}

// Resolve fetches (or reuses) the inventory for node/storage and
// resolves pattern against it.
func (r *Resolver) Resolve(ctx context.Context, pattern, node, storage string) (string, error) {
	key := cacheKey{node: node, storage: storage}
	inventory, ok := r.cache[key]
	if !ok {
		var err error
		inventory, err = r.client.ListTemplates(ctx, node, storage)
		if err != nil {
			return "", err
		}
		r.cache[key] = inventory
	}
	return Resolve(pattern, inventory, storage)
}
