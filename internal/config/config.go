package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/privacyaudit/internal/fetcher"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "privacyaudit"

	// DefaultListenAddr is the address the HTTP server binds to.
	// Port 5000 is what the browser extension expects.
	DefaultListenAddr = ":5000"

	// DefaultFetchTimeout bounds each page fetch.
	DefaultFetchTimeout = fetcher.DefaultTimeout

	// DefaultUserAgent is a desktop browser User-Agent.
	DefaultUserAgent = fetcher.DefaultUserAgent

	// DefaultMaxBodySize limits how much of a page is read.
	DefaultMaxBodySize = fetcher.DefaultMaxBodySize

	// DefaultBatchSize is the number of concurrent audits in the CLI.
	DefaultBatchSize = 5
)

// Config holds all configuration options for privacyaudit.
// This struct is populated from the config file and CLI flags and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct shared by the serve and
// audit commands. Fields that only one command reads are ignored by the other.
type Config struct {
	// ListenAddr is the HTTP server address in "host:port" form.
	ListenAddr string

	// FetchTimeout is the timeout of a single page fetch, redirects included.
	FetchTimeout time.Duration

	// UserAgent is the User-Agent header sent with page fetches.
	UserAgent string

	// MaxBodySize is the maximum number of page bytes read.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	// Empty means direct connections.
	ProxyAddress string

	// ExtraHeaders are sent with every page fetch after the browser defaults.
	ExtraHeaders map[string]string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output from text to JSON lines.
	LogJSON bool

	// BatchSize is the number of concurrent audits when several URLs are given.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of URLs to audit.
	Targets []string

	// Cookies are cookie names applied to every target.
	Cookies []string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, port, batch size).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		ListenAddr:   DefaultListenAddr,
		FetchTimeout: DefaultFetchTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		BatchSize:    DefaultBatchSize,
		ExtraHeaders: make(map[string]string),
		SiteConfigs:  NewFile(),
	}
}

// XDGConfigDir returns the XDG config directory for privacyaudit.
// On Linux: ~/.config/privacyaudit
// On macOS: ~/Library/Application Support/privacyaudit
// On Windows: %APPDATA%\privacyaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), XDGConfigFileName)
}

// Validate checks the settings shared by every command.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ProxyAddress != "" && !validHostPort(c.ProxyAddress, true) {
		return ErrInvalidProxyAddress
	}

	return nil
}

// ValidateServe checks the settings of the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !validHostPort(c.ListenAddr, false) {
		return ErrInvalidListenAddr
	}
	return nil
}

// ValidateAudit checks the settings of the audit command.
func (c *Config) ValidateAudit() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}

// validHostPort reports whether addr is host:port with a valid port.
// An empty host is accepted unless requireHost is set.
func validHostPort(addr string, requireHost bool) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if requireHost && host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 0 && n <= 65535
}

// ParseHeaders parses "Name: value" strings as given on the command line.
func ParseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
