package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/toolchat/mcp/toolserver"
	"github.com/effective-security/toolchat/tools/builtin"
	"github.com/effective-security/x/values"
	"github.com/spf13/cobra"
)

func newToolServerCmd() *cobra.Command {
	var (
		listen string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "toolserver",
		Short: "Start a tool server with the built-in demo tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := builtin.Tools()
			if err != nil {
				return err
			}

			srv := toolserver.New(toolserver.WithAPIKey(values.StringsCoalesce(apiKey, os.Getenv("TOOLSERVER_API_KEY"))))
			if err = srv.Register(list...); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8090", "Listen address")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Bearer token required from callers, defaults to TOOLSERVER_API_KEY")
	return cmd
}
