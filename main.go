package main

import "github/chapool/evm-agent/cmd"

func main() {
	cmd.Execute()
}
