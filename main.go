package main

import (
	"github.com/notargets/golas/cmd"
)

func main() {
	cmd.Execute()
}
