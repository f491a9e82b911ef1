package main

import (
	"os"

	"github.com/avdatabase/x/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
