package main

import "github.com/oshokin/minecraft-switchboard/cmd/clients-counter/cmd"

func main() {
	cmd.Execute()
}
