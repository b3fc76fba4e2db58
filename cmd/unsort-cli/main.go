package main

import "unsort/cmd/unsort-cli/cmd"

func main() {
	cmd.Execute()
}
