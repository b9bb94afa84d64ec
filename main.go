package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Saikiran1923/Aura-x/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Failed runs have already printed their report.
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
