// Package pipeline runs the steps of a domain scan in sequence.
//
// A scan is a fixed chain: preflight check, record fetch, workspace
// allocation, artifact writing, hash classification and the workspace
// summary. Each stage is a Step that receives the shared *model.Scan and
// fills in the fields it owns. The pipeline checks for cancellation between
// steps and stops at the first failing step.
package pipeline
