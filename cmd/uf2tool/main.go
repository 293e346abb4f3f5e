// Command uf2tool converts firmware images to UF2 and inspects UF2 files.
//
//	uf2tool conv firmware.bin firmware.uf2 --base 0x26000
//	uf2tool conv firmware.hex firmware.uf2 --family 0xADA52840
//	uf2tool info firmware.uf2
//	uf2tool check firmware.bin --base 0x26000
//	uf2tool unpack firmware.uf2 firmware.hex
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
)

// slogLogger adapts log/slog to converter.Logger.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, kv ...interface{}) { s.l.Debug(msg, kv...) }
func (s slogLogger) Info(msg string, kv ...interface{})  { s.l.Info(msg, kv...) }
func (s slogLogger) Error(msg string, kv ...interface{}) { s.l.Error(msg, kv...) }

func newLogger(verbose bool) slogLogger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(h)}
}

// parseUint32 accepts decimal or 0x-prefixed hex.
func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint32(v), nil
}

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:           "uf2tool",
		Short:         "UF2 firmware converter and inspector",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newConvCmd(&verbose),
		newInfoCmd(),
		newUnpackCmd(),
		newCheckCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
