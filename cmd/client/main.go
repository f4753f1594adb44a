package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/iudanet/issuekeeper/internal/client/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Exit codes
const (
	ExitCodeError        = 1
	ExitCodeAuthRequired = 2
)

func main() {
	defaults, err := cli.LoadDefaults(env.ToMap(os.Environ()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCodeError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit), defaults)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var authErr *cli.AuthRequiredError
	if errors.As(err, &authErr) {
		return ExitCodeAuthRequired
	}
	return ExitCodeError
}
