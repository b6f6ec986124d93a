package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/praetorian-inc/lintel/pkg/linter"
)

func main() {
	if err := Execute(); err != nil {
		if errors.Is(err, linter.ErrLintFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
