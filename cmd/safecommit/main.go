package main

import (
	"os"

	"github.com/ebad66/SafeCommit/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
