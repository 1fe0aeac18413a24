package main

import (
	"os"

	"github.com/whosinhq/whosin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
