// Package logx provides the process-wide structured logger and the
// fatal-exit helper alignshop's commands use in place of the teacher's
// log.Print (align/align.go) and io.ExitWithMessage (cmd/seq.go) calls.
package logx

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var logger = mustBuild()

func mustBuild() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "" // commands are interactive, not log-shipped
	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		// zap's own config failed to build: nothing to log with, fall back
		// to the most primitive possible reporting and die.
		fmt.Fprintln(os.Stderr, "logx: failed to build logger:", err)
		os.Exit(1)
	}
	return l.Sugar()
}

// L returns the process-wide logger.
func L() *zap.SugaredLogger { return logger }

// ExitWithMessage logs err as a fatal error and exits the process with
// status 1, mirroring cmd/seq.go's io.ExitWithMessage(err) call site.
func ExitWithMessage(err error) {
	logger.Error(err)
	os.Exit(1)
}

// LogError logs err without exiting, mirroring cmd/stats.go's
// io.LogError(err) call site.
func LogError(err error) {
	logger.Error(err)
}
