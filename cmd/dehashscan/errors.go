package main

import (
	"context"
	"errors"

	"github.com/nao1215/dehashscan/internal/classify"
	"github.com/nao1215/dehashscan/internal/config"
	"github.com/nao1215/dehashscan/internal/dehashed"
	"github.com/nao1215/dehashscan/internal/workspace"
)

// Operator-facing messages for the failures a user can act on.
const (
	credentialsMessage = `Please ensure that you have login email and API key stored as environment variables named "DEHASH_EMAIL" & "DEHASH_API".`
	apiMessage         = `There was an error connecting to the API, please ensure the API email and key are set in your environment variables as "DEHASH_EMAIL" and "DEHASH_API" and that your account has search credits.`
	noEntriesMessage   = "No entries found for that domain."
	workspaceMessage   = `Scan results for this domain already exist. Please "rm -rf" the existing results folder for this domain or set a different outputDir`
	identifierMessage  = "ERROR: HASH-IDENTIFIER DID NOT RUN. Please make sure you have installed name-that-hash (e.g. 'sudo apt install name-that-hash' or 'pip install name-that-hash')"
	interruptedMessage = "Scan interrupted."
)

// errorGuidance pairs a sentinel error with the message shown for it.
// When withDetail is set the original error text is appended so the
// operator can see which path or value was involved.
type errorGuidance struct {
	target     error
	message    string
	withDetail bool
}

var guidances = []errorGuidance{
	{target: config.ErrMissingCredentials, message: credentialsMessage},
	{target: dehashed.ErrUnexpectedResponse, message: apiMessage, withDetail: true},
	{target: dehashed.ErrNoEntries, message: noEntriesMessage},
	{target: workspace.ErrWorkspaceExists, message: workspaceMessage, withDetail: true},
	{target: workspace.ErrModesDirExists, message: workspaceMessage, withDetail: true},
	{target: classify.ErrIdentifierNotFound, message: identifierMessage},
	{target: classify.ErrInvalidOutput, message: identifierMessage, withDetail: true},
	{target: context.Canceled, message: interruptedMessage},
}

// guidance returns the single line printed on stderr for a fatal error.
// Errors without specific guidance are printed as they are.
func guidance(err error) string {
	for _, g := range guidances {
		if !errors.Is(err, g.target) {
			continue
		}
		if g.withDetail {
			return g.message + " (" + err.Error() + ")"
		}
		return g.message
	}
	return err.Error()
}
