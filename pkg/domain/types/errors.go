package types

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy of the ingestion pipeline. Every failure is wrapped onto one
// of these sentinels so the CLI layer and tests can discriminate categories
// with errors.Is. None of them is retried anywhere: the whole run aborts on
// the first failure.
var (
	// ErrMalformedPayload indicates the event payload was not valid JSON
	ErrMalformedPayload = goerr.New("malformed event payload")

	// ErrUnhandledEvent indicates an event name/action combination this bot
	// does not know. Deliberately fatal in one-shot mode: the workflow filter
	// must be updated before new event types are delivered.
	ErrUnhandledEvent = goerr.New("unhandled event")

	// ErrMissingContent indicates the issue or comment body was absent where
	// the event action required one
	ErrMissingContent = goerr.New("missing issue or comment content")

	// ErrFetchFailed indicates a network or HTTP failure while downloading a
	// submitted result file
	ErrFetchFailed = goerr.New("failed to fetch result file")

	// ErrExternalTool indicates resctl-bench wrote to its error stream or
	// could not be executed. Any stderr output is fatal regardless of exit
	// code: the tool prints warnings there that must not be swallowed.
	ErrExternalTool = goerr.New("resctl-bench reported an error")

	// ErrParseFailed indicates resctl-bench info output did not match the
	// expected "<label>: <model description>" report shape
	ErrParseFailed = goerr.New("failed to parse resctl-bench output")

	// ErrInvalidModelName indicates the normalized model name is not usable
	// as a directory name
	ErrInvalidModelName = goerr.New("invalid model name")

	// ErrMoveFailed indicates a downloaded result could not be moved into
	// its model directory
	ErrMoveFailed = goerr.New("failed to move result file")

	// ErrGit indicates a staging, commit, branch or push failure
	ErrGit = goerr.New("git operation failed")
)
