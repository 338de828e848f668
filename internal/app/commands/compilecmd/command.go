package compilecmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/mo"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
)

type CompileOptions struct {
	Output   string
	UseFuzzy bool
	Stats    bool
}

func New(ctx context.Context) *cobra.Command {
	compileOpts := CompileOptions{}
	cmd := &cobra.Command{
		Use:   "compile [files]",
		Short: "compile catalogs into the binary MO format, msgfmt style",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}
			compileOpts.Output, err = command.GetOutputPath(cmd)
			if err != nil {
				return fmt.Errorf("get output path: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, args, compileOpts))
		},
	}

	command.AddOutputFlag(cmd)
	cmd.Flags().BoolVarP(&compileOpts.UseFuzzy, "use-fuzzy", "f", false, "include fuzzy translations in the output")
	cmd.Flags().BoolVar(&compileOpts.Stats, "statistics", false, "report translation statistics per compiled catalog")
	return cmd
}

func execute(_ context.Context, baseDir string, targets []string, opts CompileOptions) error {
	if opts.Output != "" && len(targets) != 1 {
		return errors.New("--output requires exactly one input file")
	}
	if len(targets) == 0 {
		p, err := project.New(baseDir)
		if err != nil {
			return fmt.Errorf("new project: %w", err)
		}
		if err := p.Read(); err != nil {
			return fmt.Errorf("read project: %w", err)
		}
		for _, lang := range p.Manifest.Locales {
			targets = append(targets, p.LocalePath(lang))
		}
	}

	var encodeOpts []mo.EncodeOption
	if opts.UseFuzzy {
		encodeOpts = append(encodeOpts, mo.WithUseFuzzy())
	}

	for _, target := range targets {
		f, err := po.ParseFile(target)
		if err != nil {
			return fmt.Errorf("parse %q: %w", target, err)
		}

		out := opts.Output
		if out == "" {
			out = strings.TrimSuffix(target, ".po") + ".mo"
		}
		if err := mo.EncodeFile(out, f, encodeOpts...); err != nil {
			return fmt.Errorf("compile %q: %w", target, err)
		}

		attrs := []any{slog.String("file", target), slog.String("output", out)}
		if opts.Stats {
			attrs = append(attrs, slog.String("stats", f.Stats().String()))
		}
		slog.Info("Compiled catalog", attrs...)
	}
	return nil
}
