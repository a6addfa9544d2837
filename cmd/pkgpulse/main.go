// main holds the entry logic for the pkgpulse CLI.
package main

import (
	"github.com/huangsam/pkgpulse/cmd"
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/iostore"
)

// main is the entry point for the pkgpulse CLI.
func main() {
	err := cmd.Execute()
	iostore.CloseStore()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("could not stop profiling", perr)
	}
	if err != nil {
		contract.LogFatal("command failed", err)
	}
}
