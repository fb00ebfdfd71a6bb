package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for privacyaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privacyaudit",
		Short: "Privacy audit for web pages",
		Long: `privacyaudit estimates how much a web page exposes its visitors to tracking.

It classifies the cookies a browser holds for the page, scans the page for
third-party trackers and risky embeds, inspects the URL for tracking
parameters, and combines everything into a 0-100 privacy score with
recommendations.

Run "privacyaudit serve" to start the HTTP API used by the browser extension,
or "privacyaudit audit <url>" to audit pages from the terminal.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .privacyaudit in current or home directory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
