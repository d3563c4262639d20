package main

import "github.com/salescope/salescope-cli/cmd"

func main() {
	cmd.Execute()
}
