package main

import "github.com/parley-labs/edumap-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
