package main

import (
	"os"

	"github.com/georgem7154/once-upon-a-prompt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
