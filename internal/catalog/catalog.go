// Package catalog holds the curated value lists the generator draws from:
// department names, role labels and size presets.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Preset is a named pair of entity counts.
type Preset struct {
	Employees int `yaml:"employees"`
	Projects  int `yaml:"projects"`
}

// Catalog is the set of curated values for one run.
type Catalog struct {
	Departments []string          `yaml:"departments"`
	Roles       []string          `yaml:"roles"`
	Presets     map[string]Preset `yaml:"presets"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. Lists left empty in the file keep their
// built-in values, so a file may override only the roles, for example.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	c := Default()
	if len(override.Departments) > 0 {
		c.Departments = override.Departments
	}
	if len(override.Roles) > 0 {
		c.Roles = override.Roles
	}
	for name, p := range override.Presets {
		c.Presets[name] = p
	}
	return c, nil
}

// Parse decodes a catalog document and normalizes its entries.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.Departments = normalize(c.Departments)
	c.Roles = normalize(c.Roles)
	if c.Presets == nil {
		c.Presets = map[string]Preset{}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Preset looks up a preset by name.
func (c *Catalog) Preset(name string) (Preset, bool) {
	p, ok := c.Presets[strings.ToLower(name)]
	return p, ok
}

func (c *Catalog) validate() error {
	if dup := firstDuplicate(c.Departments); dup != "" {
		return fmt.Errorf("duplicate department %q", dup)
	}
	if dup := firstDuplicate(c.Roles); dup != "" {
		return fmt.Errorf("duplicate role %q", dup)
	}
	for name, p := range c.Presets {
		if p.Employees < 1 || p.Projects < 1 {
			return fmt.Errorf("preset %q: employees and projects must be positive", name)
		}
	}
	return nil
}

func normalize(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstDuplicate(items []string) string {
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			return s
		}
		seen[s] = struct{}{}
	}
	return ""
}
