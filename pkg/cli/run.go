package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/cli/config"
	"github.com/naba-lab/parcellate/pkg/domain/interfaces"
	"github.com/naba-lab/parcellate/pkg/infra/cmdexec"
	"github.com/naba-lab/parcellate/pkg/infra/history"
	"github.com/naba-lab/parcellate/pkg/infra/slicer"
	"github.com/naba-lab/parcellate/pkg/infra/wma"
	"github.com/naba-lab/parcellate/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		pipelineCfg config.Pipeline
		slicerCfg   config.Slicer
		historyCfg  config.History
		configPath  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Optional TOML file with site defaults (flags and env take precedence)",
			Destination: &configPath,
			Sources:     cli.EnvVars("PARCELLATE_CONFIG"),
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)
	flags = append(flags, slicerCfg.Flags()...)
	flags = append(flags, historyCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the parcellation pipeline for one tractography file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				file.Apply(c.IsSet, &pipelineCfg, &slicerCfg, &historyCfg)
				logger.Debug("Applied config file", "path", configPath)
			}

			opts, err := pipelineCfg.Options(&slicerCfg)
			if err != nil {
				return err
			}

			launcher := slicer.New(slicerCfg.Path, slicerCfg.Xvfb)
			if !opts.DryRun {
				if err := launcher.Validate(); err != nil {
					return err
				}
				opts.SlicerPath = launcher.Path
			}

			var executor interfaces.CommandExecutor
			var recorder *cmdexec.Recorder
			if opts.DryRun {
				recorder = cmdexec.NewRecorder()
				executor = recorder
			} else {
				executor = cmdexec.New(slicerCfg.Xvfb)
			}

			ucOpts := []usecase.Option{}
			if historyCfg.DB != "" && !opts.DryRun {
				store, err := history.Open(historyCfg.DB)
				if err != nil {
					return err
				}
				defer func() {
					if err := store.Close(); err != nil {
						logger.Warn("Failed to close history database", "error", err)
					}
				}()
				ucOpts = append(ucOpts, usecase.WithRunStore(store))
			}

			logger.Info("Starting parcellate",
				slog.String("input", opts.InputFile),
				slog.String("mode", string(opts.Mode)),
			)

			uc := usecase.NewPipeline(wma.New(executor), launcher, ucOpts...)
			if err := uc.Run(ctx, opts); err != nil {
				return goerr.Wrap(err, "pipeline failed")
			}

			if recorder != nil {
				printPlan(recorder, opts.UseXvfb)
			}
			return nil
		},
	}
}

// printPlan renders the dry-run command plan. Commands that would run
// under xvfb-run are shown with the wrapper.
func printPlan(recorder *cmdexec.Recorder, xvfb bool) {
	header := color.New(color.FgCyan, color.Bold)
	tool := color.New(color.FgGreen)

	header.Printf("Planned external commands (%d):\n", len(recorder.Commands))
	for i, cmd := range recorder.Commands {
		argv := cmd.Argv
		if xvfb && cmd.Xvfb {
			argv = append([]string{"xvfb-run", "-a"}, argv...)
		}
		fmt.Printf("%3d. %s %s\n", i+1, tool.Sprint(argv[0]), strings.Join(argv[1:], " "))
	}
}
