// Where: internal/app/list.go
// What: List command handler.
// Why: Show every service the lab home currently defines.
package app

import (
	"io"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/service"
	"github.com/pacorain/mono/internal/ui"
)

// runList executes the 'list' command.
func runList(_ CLI, deps Dependencies, out io.Writer) int {
	home, err := resolveHome(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	console := ui.New(out)

	names := service.Discover(config.ServiceDir(home))
	if len(names) == 0 {
		console.Info("No services found in homelab/service/")
		return 0
	}

	console.Info("Discovered services:")
	for _, name := range names {
		console.ItemPlain("- " + name)
	}
	return 0
}
