package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sirsphoto/internal/relocate"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			for _, line := range relocate.ReportLines(err) {
				fmt.Fprintln(os.Stderr, line)
			}
		}
		os.Exit(1)
	}
}
