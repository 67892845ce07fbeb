package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/config"
	"github.com/effective-security/toolchat/conversation"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/pkg/llms/googleai"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/toolchat/server"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		cfgFile string
		listen  string
		dump    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}
			if dump {
				s, err := cfg.Dump()
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), s)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides server.listen_addr")
	cmd.Flags().BoolVar(&dump, "dump-config", false, "Print the effective configuration and exit")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Store.Prefix)
	if err != nil {
		return errors.WithMessage(err, "failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.KV(xlog.WARNING, "status", "store_close_failed", "err", err.Error())
		}
	}()

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.Model.APIKey),
		googleai.WithDefaultModel(cfg.Model.Model),
		googleai.WithBaseURL(cfg.Model.BaseURL),
		googleai.WithTimeout(cfg.Model.Timeout.Std()),
	)
	if err != nil {
		return err
	}

	client := mcpclient.New(mcpclient.WithTimeout(cfg.Tools.Timeout.Std()))
	reg := registry.New(st, client)
	conv := conversation.New(st, reg, model, client,
		conversation.WithHistoryLimit(cfg.Conversation.HistoryLimit),
		conversation.WithToolConcurrency(cfg.Tools.Concurrency),
	)

	if len(cfg.Server.Tokens) == 0 {
		logger.KV(xlog.WARNING, "status", "no_tokens", "reason", "every API request will be rejected")
	}

	logger.KV(xlog.INFO,
		"status", "starting",
		"version", version,
		"store", cfg.Store.Driver,
		"model", model.GetName(),
		"history_limit", cfg.Conversation.HistoryLimit,
		"tool_concurrency", cfg.Tools.Concurrency,
	)
	return server.New(conv, reg, cfg.Server.Tokens).ListenAndServe(ctx, cfg.Server.ListenAddr)
}
