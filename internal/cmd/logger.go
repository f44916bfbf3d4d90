package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/mattn/go-isatty"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// newHandler writes colored output for terminals and JSON lines otherwise.
func newHandler(w io.Writer, level slog.Level, terminal bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if terminal {
		return devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: opts,
		})
	}
	return slog.NewJSONHandler(w, opts)
}

func initLogger(level string) error {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	w := os.Stdout
	slog.SetDefault(slog.New(newHandler(w, parsedLevel, isatty.IsTerminal(w.Fd()))))

	return nil
}
