package main

import (
	"os"

	lanterncmder "github.com/lanternhq/lantern/cmd/lantern"
)

func main() {
	cmd := lanterncmder.NewLanternCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
