package main

import (
	"log"

	"github.com/terraincognita07/labcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatalf("labcheck: %v", err)
	}
}
