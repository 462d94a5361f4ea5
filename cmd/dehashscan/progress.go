package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nao1215/dehashscan/internal/pipeline"
)

// stepLabels are the spinner captions for each pipeline step.
var stepLabels = map[string]string{
	pipeline.StepPreflight: "checking workspace",
	pipeline.StepFetch:     "querying DeHashed",
	pipeline.StepWorkspace: "creating workspace",
	pipeline.StepArtifacts: "writing artifacts",
	pipeline.StepClassify:  "identifying hashes",
	pipeline.StepSummary:   "writing summary",
}

// progress shows a spinner with the current pipeline step.
// The spinner only draws when its file is a terminal, so redirected
// output stays clean.
type progress struct {
	spinner *spinner.Spinner
	// order maps a step name to its 1-based position in the plan.
	order map[string]int
}

// newProgress creates a progress indicator drawing on f.
func newProgress(f *os.File) *progress {
	return &progress{
		spinner: spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriterFile(f),
			spinner.WithHiddenCursor(true),
		),
	}
}

// Plan records the step order so captions can show "[n/total]".
func (p *progress) Plan(names []string) {
	p.order = make(map[string]int, len(names))
	for i, name := range names {
		p.order[name] = i + 1
	}
}

// caption returns the spinner text for a step.
func (p *progress) caption(name string) string {
	label, ok := stepLabels[name]
	if !ok {
		label = name
	}
	if pos, ok := p.order[name]; ok {
		return fmt.Sprintf(" [%d/%d] %s...", pos, len(p.order), label)
	}
	return " " + label + "..."
}

// Step updates the caption and starts the spinner on first use.
func (p *progress) Step(name string) {
	caption := p.caption(name)
	p.spinner.Lock()
	p.spinner.Suffix = caption
	p.spinner.Unlock()
	if !p.spinner.Active() {
		p.spinner.Start()
	}
}

// Stop clears the spinner.
func (p *progress) Stop() {
	p.spinner.Stop()
}
