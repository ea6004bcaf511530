// Where: internal/app/preview.go
// What: Preview command handler.
// Why: Show pending changes without applying them.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/service"
	"github.com/pacorain/mono/internal/ui"
)

// runPreview executes the 'preview' command. With --all it previews
// every discovered service, reporting per-service failures without
// stopping. With no service argument it lists what is available.
func runPreview(cli CLI, deps Dependencies, out io.Writer) int {
	home, err := resolveHome(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	base := config.ServiceDir(home)
	console := ui.New(out)

	if cli.Preview.All {
		names := service.Discover(base)
		if len(names) == 0 {
			console.Info("No services found.")
			return 1
		}

		fmt.Fprintf(out, "Previewing %d services...\n\n", len(names))
		deployer, err := newDeployer(deps, home, out)
		if err != nil {
			return exitWithError(out, err)
		}
		for _, name := range names {
			console.Section(name)
			result, err := deployer.Preview(context.Background(), name)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			} else {
				printChangeSummary(out, result)
			}
			fmt.Fprintln(out)
		}
		return 0
	}

	if cli.Preview.Service == "" {
		printAvailable(out, base, "preview")
		return 0
	}

	console.Info("Previewing service: " + cli.Preview.Service)
	deployer, err := newDeployer(deps, home, out)
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := deployer.Preview(context.Background(), cli.Preview.Service)
	if err != nil {
		return exitWithError(out, err)
	}
	printChangeSummary(out, result)
	return 0
}
