package main

import (
	"os"

	"github.com/ZanzyTHEbar/tokenframe/cmd/tokenframe/command"
)

func main() {
	if err := command.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
