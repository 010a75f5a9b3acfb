package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/neuralx/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neuralx %s (%s/%s)\n", version.Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
