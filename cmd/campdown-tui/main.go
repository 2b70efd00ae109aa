package main

import (
	"fmt"
	"os"

	"github.com/catlinman/campdown/internal/config"
	"github.com/catlinman/campdown/internal/tui"
)

func main() {
	settings, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
