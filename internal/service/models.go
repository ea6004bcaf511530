// Where: internal/service/models.go
// What: Typed model for service definitions.
// Why: Give service.yaml a concrete shape the mappers can consume.
package service

// ResourceTypeContainer is the only resource type the loader accepts today.
const ResourceTypeContainer = "proxmox:container"

// Service is one service definition parsed from service.yaml.
// It is immutable after load; each load is a fresh full parse.
type Service struct {
	ID          string
	Description string
	Resources   []Resource
}

// Resource is a single resource entry within a service.
type Resource struct {
	ID         string
	Type       string
	Properties ContainerProperties
}

// ContainerProperties holds the container-shaped properties of a resource.
type ContainerProperties struct {
	Hostname          string
	Template          TemplateConfig
	ResourcePool      string
	Disks             map[string]DiskConfig
	CPU               CPUConfig
	Memory            MemoryConfig
	NetworkInterfaces map[string]NetworkInterface
}

// TemplateConfig names the container template, possibly as a glob
// pattern like "alpine-3.*".
type TemplateConfig struct {
	Name string
}

// DiskConfig describes one disk by its size string (e.g. "4G").
type DiskConfig struct {
	Size string
}

// CPUConfig describes CPU allocation.
type CPUConfig struct {
	Cores int
}

// MemoryConfig describes memory and swap as size strings.
type MemoryConfig struct {
	Size string
	Swap string
}

// NetworkInterface describes one interface with optional static
// IPv4/IPv6 configuration.
type NetworkInterface struct {
	Name string
	IPv4 *IPConfig
	IPv6 *IPConfig
}

// IPConfig is an address in CIDR notation plus its gateway.
type IPConfig struct {
	Address string
	Gateway string
}
