package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyaudit/internal/config"
	"github.com/nao1215/privacyaudit/internal/pipeline"
	"github.com/nao1215/privacyaudit/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the privacy audit HTTP API",
		Long: `Serve starts the HTTP API used by the browser extension.

Endpoints:
  POST /audit   audit a URL with the cookie names the browser holds for it
  GET  /health  report service status

The listen address is taken from --listen. When the flag is not given, the
HOST and PORT environment variables are used if set, otherwise ` + config.DefaultListenAddr + `.

Examples:
  # Listen on the default port
  privacyaudit serve

  # Listen on localhost only
  privacyaudit serve --listen 127.0.0.1:8080

  # Fetch pages through a local Tor daemon
  privacyaudit serve --proxy 127.0.0.1:9050`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"Address to listen on (host:port)")
	cmd.Flags().StringSlice("allow-origin", nil,
		"Allowed CORS origin (repeatable, default: any origin)")
	addFetchFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return err
	}

	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	cfg.ListenAddr = resolveListenAddr(listen, cmd.Flags().Changed("listen"), os.Getenv("HOST"), os.Getenv("PORT"))

	origins, err := cmd.Flags().GetStringSlice("allow-origin")
	if err != nil {
		return err
	}

	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	f, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}

	auditor := pipeline.NewAuditor(f, pipeline.WithAuditLogger(logger))
	srv := server.New(auditor,
		server.WithLogger(logger),
		server.WithAllowedOrigins(origins...),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "privacyaudit API listening on %s\n", cfg.ListenAddr)
	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
	return nil
}

// resolveListenAddr picks the listen address. An explicit flag wins, then
// the HOST and PORT environment variables, then the flag default.
func resolveListenAddr(flagValue string, flagChanged bool, host, port string) string {
	if flagChanged || (host == "" && port == "") {
		return flagValue
	}

	if port == "" {
		_, defaultPort, err := net.SplitHostPort(config.DefaultListenAddr)
		if err != nil {
			return flagValue
		}
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}
