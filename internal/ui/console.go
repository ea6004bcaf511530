// Where: internal/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize indentation and structure across commands.
package ui

import (
	"fmt"
	"io"
)

// Console provides helper methods for formatted output.
type Console struct {
	Out io.Writer
}

// New creates a new Console writing to the provided writer.
func New(out io.Writer) *Console {
	return &Console{Out: out}
}

// Section prints a service section header.
// Example: === mail ===
func (c *Console) Section(name string) {
	fmt.Fprintf(c.Out, "=== %s ===\n", name)
}

// Item prints a key-value item with indentation.
// Example:   create: 2
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "  %s: %v\n", key, value)
}

// ItemPlain prints a generic indented line.
func (c *Console) ItemPlain(msg string) {
	fmt.Fprintf(c.Out, "  %s\n", msg)
}

// Info prints a plain message.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.Out, msg)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	fmt.Fprintf(c.Out, "✅ %s\n", msg)
}
