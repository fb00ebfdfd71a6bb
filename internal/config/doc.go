// Package config provides configuration structures and utilities for privacyaudit.
// It defines the server and fetch settings, CLI report preferences and the
// optional YAML file with per-site cookies and headers.
package config
