// Package classify identifies password hashes by hashcat mode and files each
// hash under a per-mode list.
//
// Identification is delegated to an external tool behind the Identifier
// interface. NameThatHash runs the name-that-hash CLI; tests substitute an
// IdentifierFunc. The raw tool output is kept in the workspace next to the
// per-mode files so that a run can be audited afterwards.
//
// Mode selection looks at the first three candidates the tool reports for a
// hash and takes the first one that carries a hashcat mode. Hashes without a
// usable mode go to the NOTFOUND list.
package classify
