package main

import (
	"os"

	"github.com/joelgerard/healthsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
