package main

import (
	"os"

	"github.com/hifzlog/hifzlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
