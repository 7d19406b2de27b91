// cmd/idr/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"idr/internal/app"
	"idr/internal/launcher"
	"idr/internal/logsink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	sink := logsink.New(os.Stderr)
	l := &launcher.Launcher{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Sink:   sink,
	}

	err := l.Run(func() error {
		return app.Main(ctx, os.Args[1:], os.Stdout, os.Stderr, sink)
	})

	code := app.ExitCode(err, os.Stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}
