package main

import "biomass-tools/cmd"

func main() {
	cmd.Execute()
}
