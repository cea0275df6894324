package main

import "github.com/depman-cli/depman/cmd"

func main() {
	cmd.Execute()
}
