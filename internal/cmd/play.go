package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/console"
)

// tictactoe play
func Play() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts a game for two players sharing this terminal.
			X always moves first. Type a key and press enter:

			  1-9  place a mark, cells are numbered left to right, top to bottom
			  r    start a new round, scores are kept
			  esc  close the result message
			  q    quit`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// the board owns stdout
			logger := newLogger(cmd.ErrOrStderr(), "warn")
			if conf.LogLevel == "debug" {
				logger = newLogger(cmd.ErrOrStderr(), conf.LogLevel)
			}

			return console.New(logger, cmd.InOrStdin(), cmd.OutOrStdout(), conf.ResultDelay).Run(ctx)
		},
	}
}
