package main

import "github.com/driftless-hq/driftless-sub001/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
