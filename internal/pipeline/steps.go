package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/dehashscan/internal/artifact"
	"github.com/nao1215/dehashscan/internal/classify"
	"github.com/nao1215/dehashscan/internal/dehashed"
	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/report"
	"github.com/nao1215/dehashscan/internal/workspace"
)

// Step names, in default pipeline order.
const (
	StepPreflight = "preflight"
	StepFetch     = "fetch"
	StepWorkspace = "workspace"
	StepArtifacts = "artifacts"
	StepClassify  = "classify"
	StepSummary   = "summary"
)

// Searcher fetches the record set for a domain.
// *dehashed.Client implements it.
type Searcher interface {
	SearchDomain(ctx context.Context, domain string) (*dehashed.SearchResult, error)
}

// PreflightStep fails early when the domain's workspace already exists,
// before any API query is spent.
type PreflightStep struct {
	baseDir string
}

// NewPreflightStep creates a preflight step for workspaces under baseDir.
func NewPreflightStep(baseDir string) *PreflightStep {
	return &PreflightStep{baseDir: baseDir}
}

// Name returns the step name.
func (s *PreflightStep) Name() string {
	return StepPreflight
}

// Do checks that the workspace path is free.
func (s *PreflightStep) Do(_ context.Context, scan *model.Scan) error {
	return workspace.Check(s.baseDir, scan.Domain)
}

// FetchStep retrieves the record set for the scan domain.
type FetchStep struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewFetchStep creates a fetch step.
func NewFetchStep(searcher Searcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{searcher: searcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do queries the API and stores the records on the scan.
func (s *FetchStep) Do(ctx context.Context, scan *model.Scan) error {
	result, err := s.searcher.SearchDomain(ctx, scan.Domain)
	if err != nil {
		return err
	}

	scan.Records = result.Entries
	scan.Total = result.Total
	scan.Balance = result.Balance

	s.logger.Debug("records fetched",
		"domain", scan.Domain,
		"records", len(result.Entries),
		"total", result.Total,
		"balance", result.Balance,
	)
	return nil
}

// WorkspaceStep allocates the workspace directory.
type WorkspaceStep struct {
	baseDir string
}

// NewWorkspaceStep creates a workspace step for workspaces under baseDir.
func NewWorkspaceStep(baseDir string) *WorkspaceStep {
	return &WorkspaceStep{baseDir: baseDir}
}

// Name returns the step name.
func (s *WorkspaceStep) Name() string {
	return StepWorkspace
}

// Do creates the workspace and records its path.
func (s *WorkspaceStep) Do(_ context.Context, scan *model.Scan) error {
	ws, err := workspace.Create(s.baseDir, scan.Domain)
	if err != nil {
		return err
	}
	scan.Workspace = ws.Root
	return nil
}

// ArtifactStep writes all-data.csv and the derived extracts.
type ArtifactStep struct{}

// NewArtifactStep creates an artifact step.
func NewArtifactStep() *ArtifactStep {
	return &ArtifactStep{}
}

// Name returns the step name.
func (s *ArtifactStep) Name() string {
	return StepArtifacts
}

// Do writes the artifacts into the scan workspace.
func (s *ArtifactStep) Do(_ context.Context, scan *model.Scan) error {
	ws, err := openWorkspace(scan)
	if err != nil {
		return err
	}

	result, err := artifact.WriteAll(ws, scan.Records)
	if err != nil {
		return err
	}
	scan.Columns = result.Columns
	scan.Counts = result.Counts
	scan.DataDigest = result.Digest
	return nil
}

// ClassifyStep identifies the hashes and writes the per-mode files.
type ClassifyStep struct {
	classifier *classify.Classifier
}

// NewClassifyStep creates a classify step.
func NewClassifyStep(classifier *classify.Classifier) *ClassifyStep {
	return &ClassifyStep{classifier: classifier}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return StepClassify
}

// Do runs the classifier over the workspace hashes.
func (s *ClassifyStep) Do(ctx context.Context, scan *model.Scan) error {
	ws, err := openWorkspace(scan)
	if err != nil {
		return err
	}

	summary, err := s.classifier.Run(ctx, ws)
	if err != nil {
		return err
	}
	scan.Modes = summary
	return nil
}

// SummaryStep writes summary.md into the workspace.
type SummaryStep struct {
	logger *slog.Logger
}

// NewSummaryStep creates a summary step.
func NewSummaryStep(logger *slog.Logger) *SummaryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryStep{logger: logger}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return StepSummary
}

// Do renders the scan as Markdown.
func (s *SummaryStep) Do(_ context.Context, scan *model.Scan) error {
	ws, err := openWorkspace(scan)
	if err != nil {
		return err
	}

	path := ws.Path(workspace.SummaryFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, workspace.FilePerm) //nolint:gosec // path is inside the workspace
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := report.NewMarkdownWriter(f).Write(scan); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.logger.Debug("summary written", "path", path)
	return nil
}

// openWorkspace returns the workspace allocated earlier in the pipeline.
func openWorkspace(scan *model.Scan) (*workspace.Workspace, error) {
	if scan.Workspace == "" {
		return nil, fmt.Errorf("no workspace allocated for %s", scan.Domain)
	}
	return workspace.Open(scan.Workspace)
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// OutputDir is the parent directory of the workspace.
	OutputDir string

	// Summary enables writing summary.md.
	Summary bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineOutputDir sets the workspace parent directory.
func WithPipelineOutputDir(dir string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.OutputDir = dir
	}
}

// WithPipelineSummary enables or disables summary.md.
func WithPipelineSummary(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Summary = enabled
	}
}

// DefaultPipeline creates the standard scan pipeline:
// preflight, fetch, workspace, artifacts, classify and summary.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineOutputDir, etc).
func DefaultPipeline(searcher Searcher, identifier classify.Identifier, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		OutputDir: ".",
		Summary:   true,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewPreflightStep(cfg.OutputDir),
		NewFetchStep(searcher, p.logger),
		NewWorkspaceStep(cfg.OutputDir),
		NewArtifactStep(),
		NewClassifyStep(classify.New(identifier, classify.WithLogger(p.logger))),
	)
	if cfg.Summary {
		p.AddStep(NewSummaryStep(p.logger))
	}

	return p
}
