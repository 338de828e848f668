package decompilecmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/mo"
	"github.com/acronis/go-gettext/po"

	"github.com/spf13/cobra"
)

type DecompileOptions struct {
	Output string
}

func New(ctx context.Context) *cobra.Command {
	decompileOpts := DecompileOptions{}
	cmd := &cobra.Command{
		Use:   "decompile <file.mo>",
		Short: "recover a PO catalog from a compiled MO file, msgunfmt style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			decompileOpts.Output, err = command.GetOutputPath(cmd)
			if err != nil {
				return fmt.Errorf("get output path: %w", err)
			}

			return command.WrapError(execute(ctx, args[0], decompileOpts))
		},
	}

	command.AddOutputFlag(cmd)
	return cmd
}

func execute(_ context.Context, target string, opts DecompileOptions) error {
	f, err := mo.DecodeFile(target)
	if err != nil {
		return fmt.Errorf("decode %q: %w", target, err)
	}

	if opts.Output == "" {
		if err := po.Write(os.Stdout, f); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		return nil
	}
	if err := po.WriteFile(opts.Output, f); err != nil {
		return fmt.Errorf("write %q: %w", opts.Output, err)
	}

	slog.Info("Decompiled catalog",
		slog.String("file", target),
		slog.String("output", opts.Output))
	return nil
}
