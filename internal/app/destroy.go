// Where: internal/app/destroy.go
// What: Destroy command handler.
// Why: Tear down a service's resources behind an explicit confirmation.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/ui"
)

// runDestroy executes the 'destroy' command for a single service.
func runDestroy(cli CLI, deps Dependencies, out io.Writer) int {
	home, err := resolveHome(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	console := ui.New(out)

	if cli.Destroy.Service == "" {
		printAvailable(out, config.ServiceDir(home), "destroy")
		return 0
	}

	if !cli.Destroy.Yes {
		confirmed, err := confirm(deps, fmt.Sprintf(
			"Destroy service %q? This cannot be undone.", cli.Destroy.Service,
		))
		if err != nil {
			return exitWithError(out, err)
		}
		if !confirmed {
			console.Info("Aborted.")
			return 1
		}
	}

	console.Info("Destroying service: " + cli.Destroy.Service)
	deployer, err := newDeployer(deps, home, out)
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := deployer.Destroy(context.Background(), cli.Destroy.Service)
	if err != nil {
		return exitWithError(out, err)
	}

	console.Info("\nDestruction complete.")
	if result.Summary.Result == "succeeded" {
		console.Info("All resources have been removed.")
	}
	return 0
}
