package main

import (
	"os"

	"github.com/Valentine-chinedu/ITS-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
