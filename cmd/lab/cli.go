// Where: cmd/lab/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"io"
	"os"

	"github.com/pacorain/mono/internal/app"
	"github.com/pacorain/mono/internal/deployer"
	"github.com/pacorain/mono/internal/interaction"
)

// buildDependencies constructs the runtime dependencies required by the
// CLI: the real deployer and the interactive confirmation prompt.
func buildDependencies() app.Dependencies {
	return app.Dependencies{
		Out: os.Stdout,
		NewDeployer: func(home string, out io.Writer) (app.Deployer, error) {
			return deployer.New(home, out)
		},
		Confirm: interaction.Confirm,
	}
}
