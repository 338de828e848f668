package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/internal/app/commands/compilecmd"
	"github.com/acronis/go-gettext/internal/app/commands/convertcmd"
	"github.com/acronis/go-gettext/internal/app/commands/decompilecmd"
	"github.com/acronis/go-gettext/internal/app/commands/fmtcmd"
	"github.com/acronis/go-gettext/internal/app/commands/initcmd"
	"github.com/acronis/go-gettext/internal/app/commands/lintcmd"
	"github.com/acronis/go-gettext/internal/app/commands/mergecmd"
	"github.com/acronis/go-gettext/internal/app/commands/servecmd"
	"github.com/acronis/go-gettext/internal/app/commands/statcmd"
	"github.com/acronis/go-gettext/internal/app/commands/synccmd"
	"github.com/acronis/go-gettext/internal/app/commands/tmcmd"
	"github.com/acronis/go-stacktrace"
	slogex "github.com/acronis/go-stacktrace/slogex"

	"github.com/dusted-go/logging/prettylog"
	"github.com/mattn/go-isatty"
	slogformatter "github.com/samber/slog-formatter"
	"github.com/spf13/cobra"
)

func initLogging(verbose bool) {
	logLvl := func() slog.Level {
		if verbose {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}()
	w := os.Stderr

	logger := slog.New(
		slogformatter.NewFormatterHandler(
			slogformatter.HTTPRequestFormatter(false),
			slogformatter.HTTPResponseFormatter(false),
			slogformatter.FormatByType(func(s []string) slog.Value {
				return slog.StringValue(strings.Join(s, ","))
			}),
		)(
			prettylog.New(&slog.HandlerOptions{Level: logLvl},
				prettylog.WithDestinationWriter(w),
				func() prettylog.Option {
					if isatty.IsTerminal(w.Fd()) {
						return prettylog.WithColor()
					}
					return func(_ *prettylog.Handler) {}
				}(),
			),
		),
	)
	slog.SetDefault(logger)
}

const (
	verboseFlag = "verbose"
)

func main() {
	os.Exit(mainFn())
}

func mainFn() int {
	var ensureDuplicates bool
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	rootCmd := func() *cobra.Command {
		cmd := &cobra.Command{
			Use:           "gettext",
			Short:         "gettext is a tool for managing translation catalogs",
			SilenceUsage:  true,
			SilenceErrors: true,
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				verbose, err := cmd.Flags().GetBool(verboseFlag)
				if err != nil {
					fmt.Printf("Failed to get verbosity flag: %v\n", err)
					os.Exit(1)
				}

				initLogging(verbose)
			},
			CompletionOptions: cobra.CompletionOptions{
				DisableDefaultCmd: true,
			},
		}

		command.AddWorkDirFlag(cmd)

		cmd.PersistentFlags().BoolP(verboseFlag, "v", false, "verbose output")
		cmd.Flags().BoolVarP(&ensureDuplicates, "ensure-duplicates", "d", false, "ensure that there are no duplicates in tracebacks")

		cmd.AddCommand(
			initcmd.New(ctx),
			lintcmd.New(ctx),
			fmtcmd.New(ctx),
			statcmd.New(ctx),
			mergecmd.New(ctx),
			synccmd.New(ctx),
			compilecmd.New(ctx),
			decompilecmd.New(ctx),
			convertcmd.New(ctx),
			tmcmd.New(ctx),
			servecmd.New(ctx),
			&cobra.Command{
				Use:   "version",
				Short: "print a version of tool",
				Args:  cobra.MinimumNArgs(0),
				RunE: func(cmd *cobra.Command, _ []string) error {
					version := "(devel)"
					if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
						version = info.Main.Version
					}
					fmt.Fprintf(cmd.OutOrStdout(), "gettext version %s\n", version)
					return nil
				},
			},
		)
		return cmd
	}()

	if err := rootCmd.Execute(); err != nil {
		var cmdErr *command.Error
		if errors.As(err, &cmdErr) && cmdErr.Inner != nil {
			stOpts := func() []stacktrace.TracesOpt {
				if ensureDuplicates {
					return []stacktrace.TracesOpt{stacktrace.WithEnsureDuplicates()}
				}
				return []stacktrace.TracesOpt{}
			}()

			slog.Error("Command failed", slogex.ErrToSlogAttr(cmdErr.Inner, stOpts...))
		} else {
			_ = rootCmd.Usage()
		}
		return 1
	}

	return 0
}
