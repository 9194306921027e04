package main

import (
	"os"

	"github.com/optifleet/fleetcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
