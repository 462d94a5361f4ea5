package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ArtifactCounts records how many lines went into each derived artifact.
type ArtifactCounts struct {
	Records     int `json:"records"`
	Usernames   int `json:"usernames"`
	Passwords   int `json:"passwords"`
	Credentials int `json:"credentials"`
	Hashes      int `json:"hashes"`
	Emails      int `json:"emails"`
}

// ModeSummary is the outcome of bucketing hashes by hashcat mode.
type ModeSummary struct {
	// Modes maps a hashcat mode to the number of hashes filed under it.
	Modes map[string]int `json:"modes"`

	// Unidentified counts hashes written to the NOTFOUND bucket.
	Unidentified int `json:"unidentified"`
}

// ModeCount is one row of a sorted mode summary.
type ModeCount struct {
	Mode  string
	Count int
}

// Sorted returns the modes ordered by descending count, then mode name.
func (m ModeSummary) Sorted() []ModeCount {
	out := make([]ModeCount, 0, len(m.Modes))
	for mode, n := range m.Modes {
		out = append(out, ModeCount{Mode: mode, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}

// Identified returns the number of hashes that resolved to a mode.
func (m ModeSummary) Identified() int {
	total := 0
	for _, n := range m.Modes {
		total += n
	}
	return total
}

// Scan holds the state of one scan as it moves through the pipeline.
// Each step fills in the fields it owns; the finished Scan is reported and
// stored in the history database.
type Scan struct {
	// ID uniquely identifies the scan.
	ID string `json:"id"`

	// Domain is the normalized target domain.
	Domain string `json:"domain"`

	// StartedAt and FinishedAt bracket the pipeline run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Records is the fetched record set. It is not persisted.
	Records []Record `json:"-"`

	// Total is the API's count of all matches, which may exceed the page.
	Total int `json:"total"`

	// Balance is the remaining API query balance, when reported.
	Balance int `json:"balance"`

	// Workspace is the absolute path of the workspace directory.
	Workspace string `json:"workspace"`

	// Columns is the header of all-data.csv.
	Columns []string `json:"columns,omitempty"`

	// Counts summarizes the derived artifacts.
	Counts ArtifactCounts `json:"counts"`

	// Modes summarizes hash classification.
	Modes ModeSummary `json:"modes"`

	// DataDigest is the SHA3-256 hex digest of all-data.csv.
	DataDigest string `json:"data_digest,omitempty"`

	// PerformedSteps lists the pipeline steps that completed, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that stopped the pipeline, if any.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewScan creates a Scan for the given domain with a fresh ID.
func NewScan(domain string) *Scan {
	return &Scan{
		ID:        uuid.NewString(),
		Domain:    domain,
		StartedAt: time.Now(),
		Modes:     ModeSummary{Modes: make(map[string]int)},
	}
}

// Duration returns how long the scan ran. Zero if it has not finished.
func (s *Scan) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Succeeded reports whether the scan finished without error.
func (s *Scan) Succeeded() bool {
	return s.Error == nil && s.ErrorMessage == ""
}
