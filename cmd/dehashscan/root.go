package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for dehashscan.
// The root command itself runs a scan; history, init and version are
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dehashscan",
		Short: "Collect DeHashed breach records for a domain",
		Long: `dehashscan queries the DeHashed API for every breach record of a domain
and lays the results out for offline work.

A workspace named <domain>-dehashed is created in your home directory
(or the outputDir from the configuration file) containing:
  all-data.csv      every record with every field
  username.txt      usernames
  password.txt      plaintext passwords
  creds.txt         username:password pairs
  hashes.txt        password hashes, sorted
  emails.txt        unique e-mail addresses, lower-cased
  summary.md        Markdown summary of the scan
  hashcat-modes/    hashes grouped by hashcat mode (name-that-hash)

Credentials are read from the DEHASH_EMAIL and DEHASH_API environment
variables. name-that-hash (nth) must be installed for hash classification.

Examples:
  # Scan a domain
  dehashscan -d example.com

  # Use a custom configuration file
  dehashscan -c myconfig.yaml -d example.com

  # Show previous scans
  dehashscan history example.com`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Scan flags
	cmd.Flags().StringP("domain", "d", "",
		"Domain to search for (e.g., example.com)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dehashscan in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, guidance(err))
		os.Exit(1)
	}
}
