package main

import "github.com/conorfennell/spacedeck/internal/cli"

func main() {
	cli.Execute()
}
