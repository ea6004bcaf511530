// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pulumi/pulumi/sdk/v3/go/auto"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/version"
)

// Deployer runs Pulumi stack operations for one named service.
type Deployer interface {
	Preview(ctx context.Context, name string) (auto.PreviewResult, error)
	Deploy(ctx context.Context, name string) (auto.UpResult, error)
	Destroy(ctx context.Context, name string) (auto.DestroyResult, error)
}

// Dependencies holds all injected dependencies required for CLI command
// execution. This structure enables dependency injection for testing and
// allows swapping implementations of various subsystems.
type Dependencies struct {
	Out         io.Writer
	Home        string
	NewDeployer func(home string, out io.Writer) (Deployer, error)
	Confirm     func(message string) (bool, error)
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Preview PreviewCmd `cmd:"" help:"Preview changes to lab infrastructure"`
	Deploy  DeployCmd  `cmd:"" help:"Deploy lab infrastructure to Proxmox"`
	Destroy DestroyCmd `cmd:"" help:"Destroy deployed lab infrastructure"`
	List    ListCmd    `cmd:"" help:"List all discovered services"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type (
	PreviewCmd struct {
		Service string `arg:"" optional:"" help:"Service to preview"`
		All     bool   `help:"Preview all services"`
	}
	DeployCmd struct {
		Service string `arg:"" optional:"" help:"Service to deploy"`
		All     bool   `help:"Deploy all services"`
		Yes     bool   `short:"y" help:"Skip confirmation prompt"`
	}
	DestroyCmd struct {
		Service string `arg:"" optional:"" help:"Service to destroy"`
		Yes     bool   `short:"y" help:"Skip confirmation prompt"`
	}
	ListCmd    struct{}
	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution. It parses the
// command-line arguments, identifies the requested command, and
// dispatches to the appropriate handler. Returns 0 on success, 1 on
// error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	// Pick up PULUMI_CONFIG_PASSPHRASE / AWS_REGION from a local .env
	// in development setups.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}

	command := ctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"list":    runList,
		"version": func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(cli, deps, out), true
	}

	prefixHandlers := []struct {
		prefix  string
		handler commandHandler
	}{
		{prefix: "preview", handler: runPreview},
		{prefix: "deploy", handler: runDeploy},
		{prefix: "destroy", handler: runDestroy},
	}

	for _, entry := range prefixHandlers {
		if strings.HasPrefix(command, entry.prefix) {
			return entry.handler(cli, deps, out), true
		}
	}

	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	fmt.Fprintf(out, "✗ %v\n", err)
	return 1
}

// resolveHome returns the injected lab home or discovers it.
func resolveHome(deps Dependencies) (string, error) {
	if deps.Home != "" {
		return deps.Home, nil
	}
	return config.LabHome()
}

// newDeployer builds a deployer through the injected constructor.
func newDeployer(deps Dependencies, home string, out io.Writer) (Deployer, error) {
	if deps.NewDeployer == nil {
		return nil, fmt.Errorf("deployer not configured")
	}
	return deps.NewDeployer(home, out)
}

// confirm routes through the injected prompt.
func confirm(deps Dependencies, message string) (bool, error) {
	if deps.Confirm == nil {
		return false, fmt.Errorf("confirmation required but no prompt is available; use --yes")
	}
	return deps.Confirm(message)
}
