// Package testsupp holds helpers shared by the package tests.
package testsupp

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/dusted-go/logging/prettylog"
	slogformatter "github.com/samber/slog-formatter"
)

// InitLog routes the default slog output of a test through the pretty
// handler at debug level, with string slices collapsed into one attribute.
func InitLog(t *testing.T) {
	t.Helper()

	format := slogformatter.NewFormatterHandler(
		slogformatter.FormatByType(func(s []string) slog.Value {
			return slog.StringValue(strings.Join(s, ","))
		}),
	)
	pretty := prettylog.New(
		&slog.HandlerOptions{Level: slog.LevelDebug},
		prettylog.WithDestinationWriter(os.Stdout),
	)
	slog.SetDefault(slog.New(format(pretty)))
}
