package main

import "github.com/notargets/gopdes/cmd"

func main() {
	cmd.Execute()
}
