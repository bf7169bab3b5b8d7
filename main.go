package main

import (
	"os"

	"github.com/abhisek/coursefit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
