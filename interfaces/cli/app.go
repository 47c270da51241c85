// Package cli provides the command-line interface for the maitre
// reservation runtime.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "maitre",
		Short: "Restaurant reservation orchestration runtime",
		Long: `maitre runs restaurant reservation requests through a designed
state machine: it extracts what the diner wants, searches and ranks
venues, and books through the primary channel with a voice-call
fallback, pausing whenever it needs the diner's input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newRunCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithInput sets a custom input reader for the interactive run loop.
func (a *App) WithInput(stdin io.Reader) *App {
	a.stdin = stdin
	a.root.SetIn(stdin)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "maitre version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
