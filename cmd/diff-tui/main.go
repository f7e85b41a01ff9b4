package main

import (
	"github.com/charmbracelet/log"

	"github.com/interpretive-systems/difftui/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
