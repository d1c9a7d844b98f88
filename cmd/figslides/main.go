package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/figslides/internal/cli"
	ferrors "github.com/matzehuels/figslides/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ferrors.Is(err, ferrors.ErrCodeTimeout) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps input problems to 2 and everything else to 1. Cobra has
// already printed the error.
func exitCode(err error) int {
	if ferrors.IsClientError(err) {
		return 2
	}
	return 1
}
