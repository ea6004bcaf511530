// Where: internal/app/deploy.go
// What: Deploy command handler.
// Why: Apply service definitions to Proxmox with explicit confirmation.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/service"
	"github.com/pacorain/mono/internal/ui"
)

// runDeploy executes the 'deploy' command. Deployments prompt for
// confirmation unless --yes is given.
func runDeploy(cli CLI, deps Dependencies, out io.Writer) int {
	home, err := resolveHome(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	base := config.ServiceDir(home)
	console := ui.New(out)

	if cli.Deploy.All {
		names := service.Discover(base)
		if len(names) == 0 {
			console.Info("No services found.")
			return 1
		}

		if !cli.Deploy.Yes {
			confirmed, err := confirm(deps, fmt.Sprintf("Deploy %d services?", len(names)))
			if err != nil {
				return exitWithError(out, err)
			}
			if !confirmed {
				console.Info("Aborted.")
				return 1
			}
		}

		deployer, err := newDeployer(deps, home, out)
		if err != nil {
			return exitWithError(out, err)
		}
		for _, name := range names {
			fmt.Fprintf(out, "\n=== Deploying %s ===\n", name)
			result, err := deployer.Deploy(context.Background(), name)
			if err != nil {
				fmt.Fprintf(out, "Error deploying %s: %v\n", name, err)
				continue
			}
			printDeployResult(out, result)
		}
		return 0
	}

	if cli.Deploy.Service == "" {
		printAvailable(out, base, "deploy")
		return 0
	}

	if !cli.Deploy.Yes {
		confirmed, err := confirm(deps, fmt.Sprintf("Deploy service %q?", cli.Deploy.Service))
		if err != nil {
			return exitWithError(out, err)
		}
		if !confirmed {
			console.Info("Aborted.")
			return 1
		}
	}

	console.Info("Deploying service: " + cli.Deploy.Service)
	deployer, err := newDeployer(deps, home, out)
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := deployer.Deploy(context.Background(), cli.Deploy.Service)
	if err != nil {
		return exitWithError(out, err)
	}
	printDeployResult(out, result)
	return 0
}
