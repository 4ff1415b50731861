package main

import (
	"fmt"
	"io"
	"sort"
)

// terminalNotifier prints user-facing signals. Causes stay in the logs.
type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Success(title string) {
	fmt.Fprintf(n.out, "✓ %s\n", title)
}

func (n terminalNotifier) Failure(title, message string) {
	if message == "" {
		fmt.Fprintf(n.out, "✗ %s\n", title)
		return
	}
	fmt.Fprintf(n.out, "✗ %s: %s\n", title, message)
}

// terminalNavigator has no screen stack; leaving the profile screen ends the command
type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) GoBack() {
	fmt.Fprintln(n.out, "Returning to the dashboard.")
}

// printFieldErrors writes one line per field in a stable order
func printFieldErrors(out io.Writer, fieldErrors map[string]string) {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fmt.Fprintf(out, "  %s: %s\n", field, fieldErrors[field])
	}
}
