// Command cardgrid lays out cards in a responsive grid.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/internal/cli"
	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	defer c.Close()

	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Apply --verbose before the root hook opens config and log files.
	pre := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			c.SetLogLevel(cli.LogDebug)
		}
		if pre != nil {
			return pre(cmd, args)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return exitInterrupted
	}

	msg := lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Render("Error:")
	os.Stderr.WriteString(msg + " " + err.Error() + "\n")
	if apperrors.Is(err, apperrors.ErrCodeInvalidInput) || apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		return exitUsage
	}
	return exitError
}
