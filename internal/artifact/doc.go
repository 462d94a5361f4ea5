// Package artifact writes the raw record set and its derived extracts into a
// workspace.
//
// From one record set it produces:
//   - all-data.csv: every record, one row each, under a header of all keys
//   - username.txt and password.txt: non-empty values in record order
//   - creds.txt: username:password for records carrying both
//   - hashes.txt: non-empty hashed passwords, sorted, duplicates kept
//   - emails.txt: lower-cased emails, sorted and unique
//
// The extract functions are pure and return the lines they would write so
// that the rules can be tested without touching the filesystem.
package artifact
