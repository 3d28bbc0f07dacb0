package main

import "github.com/pulseai/pulsedesk/cmd"

func main() {
	cmd.Execute()
}
