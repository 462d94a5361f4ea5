// Package report renders scan results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal
//   - MarkdownWriter: the summary.md file placed in each workspace
//   - JSONWriter: structured JSON for the history command and tooling
//
// Writers implement the Writer interface. Writers that can also list
// past scans implement HistoryWriter.
package report
