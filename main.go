package main

import (
	"os"

	"github.com/jterrazz/photopack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
