package main

import (
	"os"

	"github.com/verdictdev/verdict/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
