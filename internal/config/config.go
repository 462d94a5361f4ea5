package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/net/idna"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "dehashscan"

	// DefaultAPIURL is the DeHashed API root. The search endpoint lives at
	// DefaultAPIURL + "/search".
	DefaultAPIURL = "https://api.dehashed.com"

	// MaxPageSize is the largest result page the API will return for a
	// single query. Nothing beyond the first page is ever requested.
	MaxPageSize = 10000

	// DefaultPageSize asks for as many entries as the API allows.
	DefaultPageSize = MaxPageSize

	// DefaultUserAgent overrides the Go HTTP client User-Agent, which the
	// API rejects.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.3538.77 Safari/537.36"

	// DefaultClassifier is the name-that-hash executable.
	DefaultClassifier = "nth"

	// DefaultTimeout of zero means requests never time out on their own;
	// only cancellation (Ctrl-C) interrupts them.
	DefaultTimeout time.Duration = 0
)

// Config holds all configuration options for a scan.
// It is populated from CLI flags, the optional configuration file and the
// environment once at startup, then passed to the components that need it.
type Config struct {
	// Domain is the target domain, already normalized by NormalizeDomain.
	Domain string

	// Credentials authenticate against the API. Only the fetcher uses them.
	Credentials Credentials

	// OutputDir is the parent directory of the workspace.
	// Defaults to the user's home directory.
	OutputDir string

	// APIURL is the API root URL. Overridable for testing or mirrors.
	APIURL string

	// PageSize is the number of entries requested (1..MaxPageSize).
	PageSize int

	// UserAgent is sent with the API request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	// Empty means a direct connection.
	ProxyAddress string

	// Timeout bounds the API request. Zero disables it.
	Timeout time.Duration

	// Classifier is the hash identifier command (name-that-hash).
	Classifier string

	// ConfigFilePath is the configuration file given with --config.
	// If empty, .dehashscan is searched in the current and home directories.
	ConfigFilePath string

	// SaveHistory records completed scans in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = xdg.Home
	}
	return &Config{
		OutputDir:   home,
		APIURL:      DefaultAPIURL,
		PageSize:    DefaultPageSize,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Classifier:  DefaultClassifier,
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for dehashscan.
// On Linux: ~/.local/share/dehashscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for dehashscan.
// On Linux: ~/.config/dehashscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overlays non-zero values from a configuration file onto c.
func (c *Config) Apply(f *File) error {
	if f == nil {
		return nil
	}
	if f.OutputDir != "" {
		c.OutputDir = ExpandHome(f.OutputDir)
	}
	if f.APIURL != "" {
		c.APIURL = strings.TrimRight(f.APIURL, "/")
	}
	if f.PageSize != 0 {
		c.PageSize = f.PageSize
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, f.Timeout)
		}
		c.Timeout = d
	}
	if f.Classifier != "" {
		c.Classifier = f.Classifier
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}
	return nil
}

// Validate checks if the configuration is valid.
// It returns the first rule that is violated.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return ErrNoDomain
	}
	if c.Credentials.Email == "" || c.Credentials.APIKey == "" {
		return ErrMissingCredentials
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if strings.TrimSpace(c.Classifier) == "" {
		return ErrNoClassifier
	}
	return nil
}

// NormalizeDomain trims and lower-cases a domain and checks that it is a
// usable host name. The result is safe to use as a path segment.
func NormalizeDomain(domain string) (string, error) {
	d := strings.TrimSpace(domain)
	d = strings.TrimSuffix(d, ".")
	if d == "" {
		return "", ErrNoDomain
	}
	if strings.ContainsAny(d, `/\`) || d == "." || d == ".." {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidDomain, domain)
	}
	ascii, err := idna.Lookup.ToASCII(d)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDomain, domain, err)
	}
	return ascii, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// isValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
