package main

import (
	"os"

	tokenbenchcmder "github.com/tokenbench/tokenbench/cmd/tokenbench"
)

func main() {
	cmd := tokenbenchcmder.NewTokenbenchCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
