package main

import "tourdesk/cmd/client/cmd"

func main() {
	cmd.Execute()
}
