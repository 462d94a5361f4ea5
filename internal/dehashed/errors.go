package dehashed

import "errors"

var (
	// ErrUnexpectedResponse is returned when the response is not a JSON object
	// with an "entries" array. The API answers bad credentials and exhausted
	// balances this way, so the usual cause is authentication.
	ErrUnexpectedResponse = errors.New("unexpected API response")

	// ErrNoEntries is returned when the search matched no records.
	ErrNoEntries = errors.New("no entries found for domain")
)
