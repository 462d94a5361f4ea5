// Package dehashed implements the client for the DeHashed breach-data
// search API.
//
// The client issues a single authenticated search for every entry tied to a
// domain and validates the shape of the response. It never paginates or
// retries: one request either yields a non-empty record set or fails with
// ErrUnexpectedResponse (authentication, connectivity or malformed body) or
// ErrNoEntries (the query matched nothing).
//
// Connections are direct by default. An optional SOCKS5 proxy can be used
// for operators who route tooling through Tor or a jump host.
package dehashed
