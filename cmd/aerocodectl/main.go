package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/garnizeh/aerocode/internal/cli"
	ierr "github.com/garnizeh/aerocode/internal/errors"
)

var version = "dev"

func main() {
	if err := cli.RootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.New(color.FgRed).Sprint("error:"), ierr.DisplayMessage(err, err.Error()))
		os.Exit(1)
	}
}
