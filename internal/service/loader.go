// Where: internal/service/loader.go
// What: Service definition loader.
// Why: Turn <lab home>/service/<name>/service.yaml into an immutable Service value.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition file name each service directory must contain.
const definitionFile = "service.yaml"

var (
	// ErrNotFound marks a missing service directory or definition file.
	ErrNotFound = errors.New("service not found")
	// ErrParse marks an invalid or unsupported service definition.
	ErrParse = errors.New("service parse error")
)

// serviceDocument mirrors the service.yaml wire schema.
type serviceDocument struct {
	ID          string             `yaml:"id"`
	Description string             `yaml:"description"`
	Resources   []resourceDocument `yaml:"resources"`
}

type resourceDocument struct {
	ID         string             `yaml:"id"`
	Type       string             `yaml:"type"`
	Properties propertiesDocument `yaml:"properties"`
}

type propertiesDocument struct {
	Hostname     string                   `yaml:"hostname"`
	Template     templateDocument         `yaml:"template"`
	ResourcePool string                   `yaml:"resource_pool"`
	Disks        map[string]diskDocument  `yaml:"disks"`
	CPU          *cpuDocument             `yaml:"cpu"`
	Memory       *memoryDocument          `yaml:"memory"`
	Interfaces   map[string]ifaceDocument `yaml:"network_interfaces"`
}

type templateDocument struct {
	Name string `yaml:"name"`
}

type diskDocument struct {
	Size string `yaml:"size"`
}

type cpuDocument struct {
	Cores int `yaml:"cores"`
}

type memoryDocument struct {
	Size string `yaml:"size"`
	Swap string `yaml:"swap"`
}

type ifaceDocument struct {
	IPv4 *ipDocument `yaml:"ipv4"`
	IPv6 *ipDocument `yaml:"ipv6"`
}

type ipDocument struct {
	Address string `yaml:"address"`
	Gateway string `yaml:"gateway"`
}

// Discover returns the sorted names of directories under base that
// contain a service.yaml. A missing base directory yields an empty list.
func Discover(base string) []string {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(base, entry.Name(), definitionFile)); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Path returns the definition file path for a named service.
func Path(base, name string) (string, error) {
	path := filepath.Join(base, name, definitionFile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %q at %s", ErrNotFound, name, path)
	}
	return path, nil
}

// Load reads, validates, and parses one service definition.
func Load(base, name string) (*Service, error) {
	path, err := Path(base, name)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNotFound, name, err)
	}

	if err := validateServiceDocument(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc serviceDocument
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML in %s: %v", ErrParse, path, err)
	}

	resources := make([]Resource, 0, len(doc.Resources))
	for _, res := range doc.Resources {
		parsed, err := parseResource(res)
		if err != nil {
			return nil, err
		}
		resources = append(resources, parsed)
	}

	return &Service{
		ID:          doc.ID,
		Description: doc.Description,
		Resources:   resources,
	}, nil
}

func parseResource(doc resourceDocument) (Resource, error) {
	if doc.Type != ResourceTypeContainer {
		return Resource{}, fmt.Errorf(
			"%w: unsupported resource type %q, only %q is currently supported",
			ErrParse, doc.Type, ResourceTypeContainer,
		)
	}

	return Resource{
		ID:         doc.ID,
		Type:       doc.Type,
		Properties: parseProperties(doc.Properties),
	}, nil
}

func parseProperties(doc propertiesDocument) ContainerProperties {
	props := ContainerProperties{
		Hostname:     doc.Hostname,
		Template:     TemplateConfig{Name: doc.Template.Name},
		ResourcePool: doc.ResourcePool,
		CPU:          CPUConfig{Cores: 1},
		Memory:       MemoryConfig{Size: "512M", Swap: "0M"},
	}

	if len(doc.Disks) > 0 {
		props.Disks = make(map[string]DiskConfig, len(doc.Disks))
		for name, disk := range doc.Disks {
			props.Disks[name] = DiskConfig{Size: disk.Size}
		}
	}

	if doc.CPU != nil && doc.CPU.Cores > 0 {
		props.CPU.Cores = doc.CPU.Cores
	}
	if doc.Memory != nil {
		if doc.Memory.Size != "" {
			props.Memory.Size = doc.Memory.Size
		}
		if doc.Memory.Swap != "" {
			props.Memory.Swap = doc.Memory.Swap
		}
	}

	if len(doc.Interfaces) > 0 {
		props.NetworkInterfaces = make(map[string]NetworkInterface, len(doc.Interfaces))
		for name, iface := range doc.Interfaces {
			props.NetworkInterfaces[name] = NetworkInterface{
				Name: name,
				IPv4: parseIP(iface.IPv4),
				IPv6: parseIP(iface.IPv6),
			}
		}
	}

	return props
}

func parseIP(doc *ipDocument) *IPConfig {
	if doc == nil {
		return nil
	}
	return &IPConfig{Address: doc.Address, Gateway: doc.Gateway}
}
