package convertcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/jsoncat"
	"github.com/acronis/go-gettext/po"

	"github.com/spf13/cobra"
)

type ConvertOptions struct {
	Output           string
	ContextSeparator string
	KeyAsID          bool
	Language         string
}

func New(ctx context.Context) *cobra.Command {
	convertOpts := ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <file.po|file.json>",
		Short: "convert a catalog between the PO and JSON formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			convertOpts.Output, err = command.GetOutputPath(cmd)
			if err != nil {
				return fmt.Errorf("get output path: %w", err)
			}

			return command.WrapError(execute(ctx, args[0], convertOpts))
		},
	}

	command.AddOutputFlag(cmd)
	cmd.Flags().StringVar(&convertOpts.ContextSeparator, "context-separator", jsoncat.DefaultContextSeparator, "separator between a context and an ID in JSON keys")
	cmd.Flags().BoolVar(&convertOpts.KeyAsID, "key-as-id", false, "treat JSON keys as opaque message identifiers")
	cmd.Flags().StringVarP(&convertOpts.Language, "language", "l", "", "language to declare in a generated PO header")
	return cmd
}

func execute(_ context.Context, target string, opts ConvertOptions) error {
	jsonOpts := []jsoncat.Option{jsoncat.WithContextSeparator(opts.ContextSeparator)}
	if opts.KeyAsID {
		jsonOpts = append(jsonOpts, jsoncat.WithKeyAsID())
	}

	switch ext := filepath.Ext(target); ext {
	case ".po", ".pot":
		return exportJSON(target, opts, jsonOpts)
	case ".json":
		return importJSON(target, opts, jsonOpts)
	default:
		return fmt.Errorf("unsupported file extension %q", ext)
	}
}

func exportJSON(target string, opts ConvertOptions, jsonOpts []jsoncat.Option) error {
	f, err := po.ParseFile(target)
	if err != nil {
		return fmt.Errorf("parse %q: %w", target, err)
	}
	data, err := jsoncat.Export(f, jsonOpts...)
	if err != nil {
		return fmt.Errorf("export %q: %w", target, err)
	}

	if opts.Output == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", opts.Output, err)
	}

	slog.Info("Converted catalog", slog.String("file", target), slog.String("output", opts.Output))
	return nil
}

func importJSON(target string, opts ConvertOptions, jsonOpts []jsoncat.Option) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read %q: %w", target, err)
	}
	msgs, err := jsoncat.Import(data, jsonOpts...)
	if err != nil {
		return fmt.Errorf("import %q: %w", target, err)
	}

	f := po.NewFile()
	h := po.NewHeader()
	h.Set(po.HeaderMIMEVersion, "1.0")
	h.Set(po.HeaderContentType, "text/plain; charset=UTF-8")
	h.Set(po.HeaderTransferEncoding, "8bit")
	if opts.Language != "" {
		h.Set(po.HeaderLanguage, opts.Language)
	}
	f.SetHeader(h)

	for _, m := range msgs {
		e := &po.Entry{
			Context:    m.Context,
			HasContext: m.Context != "",
			ID:         m.ID,
			IDPlural:   m.IDPlural,
			Str:        m.Str,
		}
		if err := f.AddEntry(e); err != nil {
			return fmt.Errorf("add entry: %w", err)
		}
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

	slog.Info("Converted catalog", slog.String("file", target), slog.String("output", opts.Output))
	return nil
}
