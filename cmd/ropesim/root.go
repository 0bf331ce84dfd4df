package main

import (
	"os"

	"github.com/milk9111/hoprope/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose    bool
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ropesim",
		Short:         "Simulate rope knots and connections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger := newLogger(os.Stderr, levelFor(opts.verbose, cfg.Log.Level))
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "yaml config overriding the defaults")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}
