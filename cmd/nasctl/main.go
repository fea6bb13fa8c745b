package main

import (
	"os"

	"github.com/hashicorp-forge/nasrest/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
