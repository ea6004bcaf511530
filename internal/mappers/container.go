// Where: internal/mappers/container.go
// What: Mapper from service resources to Proxmox container resources.
// Why: Translate the declarative container model into provider SDK arguments.
package mappers

import (
	"context"
	"sort"

	"github.com/muhlba91/pulumi-proxmoxve/sdk/v6/go/proxmoxve"
	"github.com/muhlba91/pulumi-proxmoxve/sdk/v6/go/proxmoxve/ct"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/pacorain/mono/internal/service"
)

// Defaults matching the homelab Proxmox layout.
const (
	DefaultDatastore  = "local-lvm"
	DefaultBridge     = "vmbr0"
	defaultRootfsSize = 4
)

// TemplateResolver resolves a template pattern to a volume id.
type TemplateResolver interface {
	Resolve(ctx context.Context, pattern, node, storage string) (string, error)
}

// NewContainer creates a Proxmox LXC container resource for the given
// service resource. Template resolution runs synchronously against the
// live inventory before the resource is registered.
func NewContainer(
	pctx *pulumi.Context,
	res service.Resource,
	provider *proxmoxve.Provider,
	resolver TemplateResolver,
	node, storage string,
) (*ct.Container, error) {
	props := res.Properties

	templateFileID, err := resolver.Resolve(pctx.Context(), props.Template.Name, node, storage)
	if err != nil {
		return nil, err
	}

	rootfsSize, err := rootfsSizeGB(props)
	if err != nil {
		return nil, err
	}
	memoryMB, err := service.ParseSizeMB(props.Memory.Size)
	if err != nil {
		return nil, err
	}
	swapMB, err := service.ParseSizeMB(props.Memory.Swap)
	if err != nil {
		return nil, err
	}

	args := &ct.ContainerArgs{
		NodeName: pulumi.String(node),
		OperatingSystem: &ct.ContainerOperatingSystemArgs{
			TemplateFileId: pulumi.String(templateFileID),
			// Let Proxmox detect the OS type.
			Type: pulumi.String("unmanaged"),
		},
		Cpu: &ct.ContainerCpuArgs{
			Cores: pulumi.Int(props.CPU.Cores),
		},
		Memory: &ct.ContainerMemoryArgs{
			Dedicated: pulumi.Int(memoryMB),
			Swap:      pulumi.Int(swapMB),
		},
		Disk: &ct.ContainerDiskArgs{
			DatastoreId: pulumi.String(DefaultDatastore),
			Size:        pulumi.Int(rootfsSize),
		},
		NetworkInterfaces: buildNetworkInterfaces(props),
		Initialization:    buildInitialization(props),
		Started:           pulumi.Bool(true),
		// Unprivileged is the safer default for homelab workloads.
		Unprivileged: pulumi.Bool(true),
	}
	if props.ResourcePool != "" {
		args.PoolId = pulumi.String(props.ResourcePool)
	}

	return ct.NewContainer(pctx, res.ID, args, pulumi.Provider(provider))
}

// rootfsSizeGB parses the rootfs disk size, defaulting when the service
// defines no rootfs disk.
func rootfsSizeGB(props service.ContainerProperties) (int, error) {
	disk, ok := props.Disks["rootfs"]
	if !ok {
		return defaultRootfsSize, nil
	}
	return service.ParseSizeGB(disk.Size)
}

// interfaceNames returns the interface names in stable order so repeated
// previews produce identical plans.
func interfaceNames(props service.ContainerProperties) []string {
	names := make([]string, 0, len(props.NetworkInterfaces))
	for name := range props.NetworkInterfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildNetworkInterfaces(props service.ContainerProperties) ct.ContainerNetworkInterfaceArray {
	var result ct.ContainerNetworkInterfaceArray
	for _, name := range interfaceNames(props) {
		result = append(result, ct.ContainerNetworkInterfaceArgs{
			Name:   pulumi.String(name),
			Bridge: pulumi.String(DefaultBridge),
		})
	}
	return result
}

func buildInitialization(props service.ContainerProperties) ct.ContainerInitializationPtrInput {
	var ipConfigs ct.ContainerInitializationIpConfigArray
	for _, name := range interfaceNames(props) {
		iface := props.NetworkInterfaces[name]

		ipConfig := ct.ContainerInitializationIpConfigArgs{}
		if iface.IPv4 != nil {
			ipConfig.Ipv4 = &ct.ContainerInitializationIpConfigIpv4Args{
				Address: pulumi.String(iface.IPv4.Address),
				Gateway: pulumi.String(iface.IPv4.Gateway),
			}
		}
		if iface.IPv6 != nil {
			ipConfig.Ipv6 = &ct.ContainerInitializationIpConfigIpv6Args{
				Address: pulumi.String(iface.IPv6.Address),
				Gateway: pulumi.String(iface.IPv6.Gateway),
			}
		}
		ipConfigs = append(ipConfigs, ipConfig)
	}

	init := ct.ContainerInitializationArgs{
		Hostname: pulumi.String(props.Hostname),
	}
	if len(ipConfigs) > 0 {
		init.IpConfigs = ipConfigs
	}
	return init
}
