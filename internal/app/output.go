// Where: internal/app/output.go
// What: Shared result and listing printers.
// Why: Keep command handlers free of formatting detail.
package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"

	"github.com/pacorain/mono/internal/service"
	"github.com/pacorain/mono/internal/ui"
)

// printAvailable lists discovered services and hints at the next command.
func printAvailable(out io.Writer, base, command string) {
	console := ui.New(out)
	names := service.Discover(base)
	if len(names) == 0 {
		console.Info("No services found in homelab/service/")
		return
	}
	console.Info("Available services:")
	for _, name := range names {
		console.ItemPlain("- " + name)
	}
	fmt.Fprintf(out, "\nRun: lab %s <service> to %s a specific service\n", command, command)
}

// printChangeSummary prints a summary of changes from preview.
func printChangeSummary(out io.Writer, result auto.PreviewResult) {
	console := ui.New(out)

	keys := make([]string, 0, len(result.ChangeSummary))
	for op, count := range result.ChangeSummary {
		if count > 0 {
			keys = append(keys, string(op))
		}
	}
	if len(keys) == 0 {
		console.Info("No changes detected.")
		return
	}
	sort.Strings(keys)

	console.Info("\nChange summary:")
	for _, key := range keys {
		console.Item(key, result.ChangeSummary[apitype.OpType(key)])
	}
}

// printDeployResult prints deployment outputs.
func printDeployResult(out io.Writer, result auto.UpResult) {
	console := ui.New(out)
	if len(result.Outputs) == 0 {
		console.Info("\nDeployment complete.")
		return
	}

	keys := make([]string, 0, len(result.Outputs))
	for key := range result.Outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	console.Info("\nOutputs:")
	for _, key := range keys {
		console.Item(key, result.Outputs[key].Value)
	}
}
