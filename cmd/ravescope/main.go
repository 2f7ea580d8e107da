// Package main is the entry point for the ravescope CLI.
//
// Usage:
//
//	ravescope [flags] <command> [args]
//
// Commands:
//
//	explore  - Sample a model's latent space into fluid.dataset~ JSON files
//	serve    - Run the OSC model-inspection service
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/ravescope/ravescope/cmd/ravescope/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
