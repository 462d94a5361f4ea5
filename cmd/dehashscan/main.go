// Package main provides the entry point for the dehashscan CLI.
//
// dehashscan pulls every DeHashed record for a domain, writes the records
// and the username, password, credential, hash and email extracts into a
// per-domain workspace, and sorts the hashes into hashcat-mode files with
// name-that-hash.
//
// Usage:
//
//	dehashscan -d example.com
//	dehashscan history example.com
//
// The API credentials are read from the DEHASH_EMAIL and DEHASH_API
// environment variables. See --help for all available options.
package main

// main is the entry point for dehashscan.
func main() {
	Execute()
}
