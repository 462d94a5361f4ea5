package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/workspace"
)

const (
	// OutputFile holds the identifier output inside the modes directory.
	OutputFile = "name_that_hash.json"

	// ModeFilePrefix starts every per-mode file name.
	ModeFilePrefix = "hashcat_mode_"

	// NotFound names the list of hashes without a usable mode.
	NotFound = "NOTFOUND"

	// candidateLimit is how many leading candidates are considered.
	candidateLimit = 3
)

// emptyOutput is captured when there are no hashes to identify.
var emptyOutput = []byte("{}")

// safeMode matches mode text that can be used in a file name.
var safeMode = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// SelectMode returns the hashcat mode to file a hash under.
// The first candidates are checked in order and the first non-empty mode
// wins. ok is false when none of them has one.
func SelectMode(cands []model.Candidate) (mode string, ok bool) {
	for i, c := range cands {
		if i == candidateLimit {
			break
		}
		if m := c.Mode(); m != "" {
			return m, true
		}
	}
	return "", false
}

// ModeFileName returns the per-mode file name for a hash's candidates.
// Unidentified hashes and modes that are not safe file name tokens map to
// the NOTFOUND file.
func ModeFileName(cands []model.Candidate) (name string, identified bool) {
	mode, ok := SelectMode(cands)
	if !ok || !safeMode.MatchString(mode) {
		return ModeFilePrefix + NotFound, false
	}
	return ModeFilePrefix + mode, true
}

// Classifier runs an Identifier over a workspace's hashes.txt and buckets
// the result.
type Classifier struct {
	identifier Identifier
	logger     *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the classifier logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a Classifier using id for identification.
func New(id Identifier, opts ...Option) *Classifier {
	c := &Classifier{
		identifier: id,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run classifies the hashes in ws and writes the per-mode files.
// Only output that is not a JSON object fails the run; a hash with
// unusable candidates is filed under NOTFOUND.
//
// The modes directory is created exclusively, so a leftover directory from
// an earlier run fails with workspace.ErrModesDirExists. The identifier
// output is saved verbatim and then read back from disk for parsing.
func (c *Classifier) Run(ctx context.Context, ws *workspace.Workspace) (model.ModeSummary, error) {
	summary := model.ModeSummary{Modes: make(map[string]int)}

	if _, err := ws.CreateModesDir(); err != nil {
		return summary, err
	}

	output, err := c.identify(ctx, ws.Path(workspace.HashesFile))
	if err != nil {
		return summary, err
	}

	outputPath := ws.ModesPath(OutputFile)
	if err := os.WriteFile(outputPath, output, workspace.FilePerm); err != nil {
		return summary, fmt.Errorf("failed to save identifier output: %w", err)
	}

	data, err := os.ReadFile(outputPath) //nolint:gosec // path is inside the workspace
	if err != nil {
		return summary, fmt.Errorf("failed to read identifier output: %w", err)
	}
	classification, err := model.ParseClassification(data)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if n := len(classification.Malformed); n > 0 {
		c.logger.Warn("hash identifier returned malformed candidates; filed as NOTFOUND",
			"hashes", n,
		)
	}

	if err := c.bucket(ws, classification, &summary); err != nil {
		return summary, err
	}

	c.logger.Debug("hashes classified",
		"hashes", classification.Len(),
		"modes", len(summary.Modes),
		"unidentified", summary.Unidentified,
	)
	return summary, nil
}

// identify returns the identifier output for hashFile, or an empty map when
// the file has no content.
func (c *Classifier) identify(ctx context.Context, hashFile string) ([]byte, error) {
	info, err := os.Stat(hashFile)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", hashFile, err)
	}
	if info.Size() == 0 {
		c.logger.Debug("no hashes to identify", "file", hashFile)
		return emptyOutput, nil
	}
	return c.identifier.Identify(ctx, hashFile)
}

// bucket appends every hash to its per-mode file in classification order.
func (c *Classifier) bucket(ws *workspace.Workspace, cl *model.Classification, summary *model.ModeSummary) (err error) {
	files := make(map[string]*os.File)
	defer func() {
		for _, f := range files {
			if cerr := f.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	for _, hash := range cl.Hashes {
		cands := cl.Candidates[hash]
		name, identified := ModeFileName(cands)
		if identified {
			mode, _ := SelectMode(cands)
			summary.Modes[mode]++
		} else {
			summary.Unidentified++
			c.logger.Debug("hash not identified", "candidates", len(cands))
		}

		f, ok := files[name]
		if !ok {
			path := ws.ModesPath(name)
			f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, workspace.FilePerm) //nolint:gosec // path is inside the workspace
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			files[name] = f
		}
		if _, err := f.WriteString(hash + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
