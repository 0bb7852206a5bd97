package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// errReported marks an error that has already been shown to the user.
var errReported = errors.New("error already reported")

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "crossfire",
		Short: "Structured two-model debates",
		Long: "Runs a fixed 20-turn debate between two language models, one arguing Pro and one arguing Con: " +
			"opening statements, three rounds of cross-examination, free debate and closing statements.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().String("config", "", "config file (default ~/.crossfire/config.yaml when present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (overrides CROSSFIRE_LOG_LEVEL)")
	root.PersistentFlags().String("store", "", "credential store file (overrides CROSSFIRE_STORE_PATH)")

	root.AddCommand(newDebateCmd(a))
	root.AddCommand(newKeysCmd(a))
	root.AddCommand(newModelsCmd(a))
	return root
}
