package main

import "github.com/inamate/sketchboard/cmd/sketchctl/cmd"

func main() {
	cmd.Execute()
}
