package tmcmd

import (
	"context"

	"github.com/acronis/go-gettext/internal/app/commands/tmcmd/recordcmd"
	"github.com/acronis/go-gettext/internal/app/commands/tmcmd/statscmd"

	"github.com/spf13/cobra"
)

func New(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tm",
		Short: "command to manage the translation memory database",
	}
	cmd.AddCommand(
		recordcmd.New(ctx),
		statscmd.New(ctx),
	)
	return cmd
}
