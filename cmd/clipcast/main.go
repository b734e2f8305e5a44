// clipcast is the operator CLI: submit videos, poll status, inspect
// highlights and content plans, and manage the installation.
package main

import (
	"errors"
	"fmt"
	"os"

	"clipcast/internal/services"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "clipcast:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "clipcast:", err)
		os.Exit(1)
	}
}
