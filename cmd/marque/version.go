package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marquelabs/marque/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("marque %s (%s, %s)\n", build.Version, build.Commit, build.Branch)
		},
	}
}
