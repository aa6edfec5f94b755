package main

import "helpbot/cmd/helpbot-cli/cmd"

func main() {
	cmd.Execute()
}
