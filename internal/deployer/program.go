// Where: internal/deployer/program.go
// What: Inline Pulumi program assembly.
// Why: Map a parsed Service onto provider resources inside one stack run.
package deployer

import (
	"fmt"

	"github.com/muhlba91/pulumi-proxmoxve/sdk/v6/go/proxmoxve"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/pacorain/mono/internal/mappers"
	"github.com/pacorain/mono/internal/service"
)

// program returns the inline Pulumi program for a service: one explicit
// provider plus one container per resource.
func (d *Deployer) program(svc *service.Service) pulumi.RunFunc {
	return func(pctx *pulumi.Context) error {
		// Format: USER@REALM!TOKENID=SECRET
		apiToken := fmt.Sprintf("%s=%s", d.creds.Username, d.creds.Password)
		provider, err := proxmoxve.NewProvider(pctx, "proxmox-provider", &proxmoxve.ProviderArgs{
			Endpoint: pulumi.String(d.creds.Endpoint),
			ApiToken: pulumi.String(apiToken),
			// Self-signed certs on the PVE host.
			Insecure: pulumi.Bool(true),
		})
		if err != nil {
			return err
		}

		for _, res := range svc.Resources {
			if res.Type != service.ResourceTypeContainer {
				continue
			}
			container, err := mappers.NewContainer(pctx, res, provider, d.resolver, d.node, d.storage)
			if err != nil {
				return err
			}
			pctx.Export(fmt.Sprintf("%s_id", res.ID), container.VmId)
		}
		return nil
	}
}
