package main

import "github.com/OpenTraceLab/OpenTracePnP/cmd/pnp/cmd"

func main() {
	cmd.Execute()
}
