package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/rope"
	"github.com/milk9111/hoprope/script"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var snapshotOut string

	cmd := &cobra.Command{
		Use:   "run <script.tengo | scenario>",
		Short: "Run a tengo scenario against a fresh world",
		Long: "Run a tengo scenario against a fresh world. The argument is a file path or\n" +
			"the name of a bundled scenario (" + strings.Join(script.Scenarios(), ", ") + ").",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			src, err := loadScript(args[0])
			if err != nil {
				return err
			}

			w := ecs.NewWorld()
			w.Configure(opts.cfg)
			w.SetLogger(logger)
			runner := script.NewRunner(w, nil)

			if err := runner.Run(ctx, src); err != nil {
				return err
			}

			logger.Info("scenario finished",
				"ticks", w.Ticks(),
				"knots", len(w.EntitiesOfKind(rope.KindKnot)),
				"collisions", len(w.EntitiesOfKind(rope.KindCollision)),
				"markers", len(w.EntitiesOfKind(rope.KindHanging)),
				"packets", len(runner.Loopback().Sent()))

			if snapshotOut != "" {
				if err := writeSnapshot(ctx, snapshotOut, rope.Capture(w)); err != nil {
					return err
				}
				logger.Info("snapshot written", "path", snapshotOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&snapshotOut, "snapshot", "o", "", "write the final rope graph to this file")
	return cmd
}

func loadScript(arg string) ([]byte, error) {
	if _, err := os.Stat(arg); err == nil {
		src, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		return src, nil
	}
	return script.Scenario(arg)
}
