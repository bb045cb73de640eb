package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements SiteProvider for YAML site files.
type YAMLProvider struct {
	filename string
	sites    []SiteData
}

// NewYAMLProvider creates a provider for the given YAML file. The file
// is read lazily on the first load.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{filename: filename}
}

// LoadSites loads every site from the YAML file.
func (y *YAMLProvider) LoadSites() ([]SiteData, error) {
	if y.sites != nil {
		return y.sites, nil
	}

	raw, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Sites []SiteData `yaml:"sites"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}
	if len(doc.Sites) == 0 {
		return nil, fmt.Errorf("no sites defined in %s", y.filename)
	}

	y.sites = doc.Sites
	return y.sites, nil
}

// GetSite returns one site by name.
func (y *YAMLProvider) GetSite(name string) (*SiteData, error) {
	sites, err := y.LoadSites()
	if err != nil {
		return nil, err
	}
	return findSite(sites, name)
}

// IsReadOnly always returns true for YAML files.
func (y *YAMLProvider) IsReadOnly() bool { return true }

// Close is a no-op for YAML files.
func (y *YAMLProvider) Close() error { return nil }
