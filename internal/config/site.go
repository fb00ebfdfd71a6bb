package config

import (
	"maps"
	"slices"
	"strings"
)

// SiteConfig holds site-specific settings for one domain.
type SiteConfig struct {
	// Cookies are cookie names added to every audit of this site.
	Cookies []string `yaml:"cookies,omitempty"`

	// Headers are custom HTTP headers sent when fetching this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the privacyaudit configuration file.
type File struct {
	// Sites maps domains (e.g. "example.com") to their configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every site and merged with the site entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// NewFile returns an empty File.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}

// GetSiteConfig returns the configuration for domain merged over the defaults.
// Cookies are concatenated (defaults first, duplicates dropped); site headers
// override default headers with the same name. Domains match case-insensitively.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := SiteConfig{
		Cookies: slices.Clone(cf.Defaults.Cookies),
		Headers: maps.Clone(cf.Defaults.Headers),
	}

	site, ok := cf.lookup(domain)
	if !ok {
		return result
	}

	for _, c := range site.Cookies {
		if !slices.Contains(result.Cookies, c) {
			result.Cookies = append(result.Cookies, c)
		}
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}

	return result
}

// SiteHeaders returns the headers of every configured site keyed by domain,
// for use with fetcher.WithHostHeaders.
func (cf *File) SiteHeaders() map[string]map[string]string {
	out := make(map[string]map[string]string, len(cf.Sites))
	for domain, site := range cf.Sites {
		if len(site.Headers) > 0 {
			out[strings.ToLower(domain)] = maps.Clone(site.Headers)
		}
	}
	return out
}

func (cf *File) lookup(domain string) (SiteConfig, bool) {
	if site, ok := cf.Sites[domain]; ok {
		return site, true
	}
	for name, site := range cf.Sites {
		if strings.EqualFold(name, domain) {
			return site, true
		}
	}
	return SiteConfig{}, false
}
