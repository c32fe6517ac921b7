package main

import (
	"os"

	"github.com/symbolica-app/symbolica/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
