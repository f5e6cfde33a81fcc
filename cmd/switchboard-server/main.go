package main

import "github.com/oshokin/minecraft-switchboard/cmd/switchboard-server/cmd"

func main() {
	cmd.Execute()
}
