package main

import (
	"log"

	"github.com/thiagokokada/gitgraph-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitgraph-go: %v", err)
	}
}
