package main

import (
	"os"

	"github.com/robalobadob/colorguess/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
