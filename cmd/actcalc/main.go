package main

import (
	"os"

	"github.com/rpgo/actuarial-calculator/cmd/actcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
