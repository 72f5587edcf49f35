package main

import "github.com/notargets/fvcore/cmd"

func main() {
	cmd.Execute()
}
