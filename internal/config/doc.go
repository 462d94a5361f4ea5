// Package config provides configuration structures and utilities for dehashscan.
// It defines the options for querying the breach-data API, the location of
// scan workspaces, hash identification settings, and scan history storage.
package config
