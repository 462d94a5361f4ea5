package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/dehashscan/internal/classify"
	"github.com/nao1215/dehashscan/internal/config"
	"github.com/nao1215/dehashscan/internal/database"
	"github.com/nao1215/dehashscan/internal/dehashed"
	applog "github.com/nao1215/dehashscan/internal/log"
	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/pipeline"
	"github.com/nao1215/dehashscan/internal/report"
	"github.com/spf13/cobra"
)

// usageHint is printed when the root command runs without a domain.
const usageHint = "Please specify a domain with -d"

// runRootCmd executes a scan for the domain given with --domain.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(domain) == "" {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, usageHint)
		fmt.Fprintln(out)
		fmt.Fprint(out, cmd.UsageString())
		return nil
	}

	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	logger := applog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling so Ctrl-C aborts the API request
	// or kills the hash identifier.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Debug("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, logger, cmd.OutOrStdout(), newProgress(os.Stderr))
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags, the configuration
// file and the environment. lookup reads environment variables; nil means
// the process environment.
func buildConfig(cmd *cobra.Command, lookup config.LookupFunc) (*config.Config, error) {
	cfg := config.NewConfig()

	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return nil, err
	}
	cfg.Domain, err = config.NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.Apply(file); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Credentials, err = config.LoadCredentials(lookup)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// stepReporter receives pipeline progress.
type stepReporter interface {
	Plan(names []string)
	Step(name string)
	Stop()
}

// runScan executes the scan pipeline, records it in the history database
// and prints the terminal report to out.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, progress stepReporter) error {
	logger.Debug("starting scan",
		"domain", cfg.Domain,
		"outputDir", cfg.OutputDir,
		"credentials", cfg.Credentials,
		"saveHistory", cfg.SaveHistory,
	)

	httpClient, err := dehashed.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	client := dehashed.NewClient(cfg.Credentials,
		dehashed.WithHTTPClient(httpClient),
		dehashed.WithBaseURL(cfg.APIURL),
		dehashed.WithUserAgent(cfg.UserAgent),
		dehashed.WithPageSize(cfg.PageSize),
		dehashed.WithLogger(logger),
	)
	identifier := classify.NewNameThatHash(
		classify.WithCommand(cfg.Classifier),
		classify.WithIdentifierLogger(logger),
	)

	p := pipeline.DefaultPipeline(client, identifier,
		[]pipeline.Option{
			pipeline.WithLogger(logger),
			pipeline.WithOnStep(progress.Step),
		},
		pipeline.WithPipelineOutputDir(cfg.OutputDir),
	)
	progress.Plan(p.StepNames())

	scan := model.NewScan(cfg.Domain)
	err = p.Execute(ctx, scan)
	progress.Stop()
	if err != nil {
		return err
	}

	previous := recordHistory(ctx, cfg, scan, logger)

	writer := report.NewSimpleWriter(out,
		report.WithPrevious(previous),
		report.WithVerbose(cfg.Verbose),
	)
	if _, err := writer.Write(scan); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(out, "The data was saved to: %s\n", scan.Workspace)
	return nil
}

// recordHistory saves the scan and returns the latest earlier scan of the
// same domain, or nil. History problems are logged and never fail a scan.
func recordHistory(ctx context.Context, cfg *config.Config, scan *model.Scan, logger *slog.Logger) *model.Scan {
	if !cfg.SaveHistory {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return nil
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Debug("failed to close history database", "error", err)
		}
	}()

	previous, err := db.LatestScan(ctx, scan.Domain)
	if err != nil {
		logger.Warn("failed to read scan history", "domain", scan.Domain, "error", err)
		previous = nil
	}

	if err := db.SaveScan(ctx, scan); err != nil {
		logger.Warn("failed to save scan history", "domain", scan.Domain, "error", err)
	} else {
		logger.Debug("scan saved to history", "id", scan.ID, "db", db.Path())
	}
	return previous
}
