package cmd

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/tictactoe-hotseat/internal"
)

// tictactoe serve
func Serve() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve game sessions over HTTP and websockets",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`serve starts the HTTP server. REST routes live under
			/api/sessions and realtime clients connect to /ws?session=<id>.

			Sessions are kept in memory unless "storage: redis" is set in the
			config file. The server stops on SIGINT or SIGTERM.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return application.RunApp(newLogger(os.Stdout, conf.LogLevel), conf)
		},
	}
}
