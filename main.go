package main

import (
	"os"

	"github.com/ekshubina/ai-job-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
