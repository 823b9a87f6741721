package main

import "github.com/ryan-gang/vidmark/cmd"

func main() {
	cmd.Execute()
}
