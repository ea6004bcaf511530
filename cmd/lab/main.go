// Where: cmd/lab/main.go
// What: CLI entrypoint.
// Why: Execute lab commands with configured dependencies.
package main

import (
	"os"

	"github.com/pacorain/mono/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], buildDependencies()))
}
