package main

import (
	"os"

	"github.com/portoedu/porti/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
