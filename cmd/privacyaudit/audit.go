package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyaudit/internal/analyzer"
	"github.com/nao1215/privacyaudit/internal/config"
	"github.com/nao1215/privacyaudit/internal/fetcher"
	"github.com/nao1215/privacyaudit/internal/model"
	"github.com/nao1215/privacyaudit/internal/pipeline"
	"github.com/nao1215/privacyaudit/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url...]",
		Short: "Audit one or more web pages from the command line",
		Long: `Audit runs the same privacy audit as the HTTP API without starting a server.

For every URL it classifies the given cookie names, fetches the page and
scans it for trackers and risky embeds, inspects the URL itself, and prints
a report with the privacy score and recommendations.

Cookie names come from --cookie and from the configuration file
(defaults plus the entry of the URL's domain).

Examples:
  # Audit a single page
  privacyaudit audit https://example.com

  # Audit with the cookie names your browser holds for the site
  privacyaudit audit https://example.com --cookie _ga --cookie _fbp

  # Audit several pages concurrently and write a Markdown report
  privacyaudit audit https://a.example https://b.example --markdown -o report.md

  # Output JSON report
  privacyaudit audit --json https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	cmd.Flags().StringArray("cookie", nil,
		"Cookie name to classify (repeatable)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	addFetchFlags(cmd)

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAuditConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ValidateAudit(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	f, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, cfg, f, cmd.OutOrStdout(), logger)
}

// buildAuditConfig creates a Config from the audit command flags.
func buildAuditConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.Cookies, err = cmd.Flags().GetStringArray("cookie"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	cfg.Targets = args
	return cfg, nil
}

// buildRequests creates one audit request per target. Cookie names are the
// site configuration's cookies followed by the flag cookies, without duplicates.
func buildRequests(cfg *config.Config) []pipeline.Request {
	reqs := make([]pipeline.Request, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		site := cfg.SiteConfigs.GetSiteConfig(analyzer.ExtractDomain(target))

		cookies := slices.Clone(site.Cookies)
		for _, c := range cfg.Cookies {
			if !slices.Contains(cookies, c) {
				cookies = append(cookies, c)
			}
		}

		reqs = append(reqs, pipeline.Request{URL: target, Cookies: cookies})
	}
	return reqs
}

// runAudit audits every target and writes the reports in input order.
// Reports of successful audits are written even when others failed.
func runAudit(ctx context.Context, cfg *config.Config, f fetcher.Fetcher, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("starting audit",
		"targets", len(cfg.Targets),
		"batch_size", cfg.BatchSize,
	)

	auditor := pipeline.NewAuditor(f, pipeline.WithAuditLogger(logger))
	bp := pipeline.NewBatchProcessor(auditor,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	results, auditErr := bp.ProcessBatch(ctx, buildRequests(cfg))
	logger.Info("audit completed", "elapsed", time.Since(startTime).Round(time.Millisecond))

	reports := make([]*model.PrivacyReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			reports = append(reports, r)
		}
	}

	if len(reports) > 0 {
		if err := outputReports(cfg, stdout, reports); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if auditErr != nil {
		return fmt.Errorf("audit failed: %w", auditErr)
	}
	return nil
}

// outputReports writes reports in the requested format. With a report
// file, the selected format goes to the file and a plain-text summary is
// still printed to stdout.
func outputReports(cfg *config.Config, stdout io.Writer, reports []*model.PrivacyReport) error {
	var w report.Writer
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		file, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		w = report.NewMultiWriter(
			newReportWriter(cfg, file),
			report.NewSimpleWriter(stdout),
		)
	} else {
		w = newReportWriter(cfg, stdout)
	}

	var err error
	if len(reports) == 1 {
		_, err = w.Write(reports[0])
	} else {
		_, err = w.WriteAll(reports)
	}
	return err
}

// newReportWriter returns the writer for the selected report format.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}
