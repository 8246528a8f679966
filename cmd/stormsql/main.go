package main

import (
	"os"

	"github.com/msto63/stormsql/cmd/stormsql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
