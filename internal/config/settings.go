package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/libgate/internal/search"
)

// SearchNode is the key of the portal node whose settings drive searching.
const SearchNode = "find-a-resource"

// Settings is the portal settings file.
type Settings struct {
	Nodes        map[string]Node        `yaml:"nodes"`
	ContentTypes map[string]ContentType `yaml:"contentTypes,omitempty"`
}

// Node is one portal page with its options.
type Node struct {
	Title    string       `yaml:"title,omitempty"`
	Link     string       `yaml:"link,omitempty"`
	Settings NodeSettings `yaml:"settings"`
}

// NodeSettings are the search options of a node.
type NodeSettings struct {
	PageLimit        int      `yaml:"pageLimit"`
	PageSize         int      `yaml:"pageSize,omitempty"`
	PaginationWindow int      `yaml:"paginationWindow,omitempty"`
	AllowedParams    []string `yaml:"allowedParams,omitempty"`
	FacetFields      []string `yaml:"facetFields,omitempty"`
	FacetLimit       int      `yaml:"facetLimit,omitempty"`
	HoldingsOnly     *bool    `yaml:"holdingsOnly,omitempty"`
}

// ContentType maps a portal format to the discovery engine's value.
type ContentType struct {
	DisplayInSearch bool   `yaml:"displayInSearch"`
	DisplayName     string `yaml:"displayName"`
	Summon          string `yaml:"summon,omitempty"`
}

// DefaultSettings is used when no settings file is configured.
func DefaultSettings() *Settings {
	s := &Settings{Nodes: map[string]Node{
		SearchNode: {Title: "Find a resource", Link: SearchNode},
	}}
	s.applyDefaults()
	return s
}

// LoadSettings reads the settings file at path. An empty path yields the
// defaults. Missing options are filled with their defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	data = expandTemplateVariables(data)

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Settings) validate() error {
	for name, n := range s.Nodes {
		if n.Settings.PageLimit < 0 {
			return fmt.Errorf("node %s: pageLimit must not be negative", name)
		}
		if n.Settings.PageSize < 0 || n.Settings.FacetLimit < 0 {
			return fmt.Errorf("node %s: pageSize and facetLimit must not be negative", name)
		}
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if s.Nodes == nil {
		s.Nodes = map[string]Node{}
	}
	n := s.Nodes[SearchNode]
	ns := &n.Settings
	if ns.PageLimit == 0 {
		ns.PageLimit = 40
	}
	if ns.PageSize == 0 {
		ns.PageSize = 10
	}
	if ns.PaginationWindow == 0 {
		ns.PaginationWindow = 2
	}
	if len(ns.AllowedParams) == 0 {
		ns.AllowedParams = append([]string(nil), search.DefaultAllowedParams...)
	}
	if len(ns.FacetFields) == 0 {
		ns.FacetFields = []string{"ContentType", "SubjectTerms", "Language"}
	}
	if ns.FacetLimit == 0 {
		ns.FacetLimit = 10
	}
	if ns.HoldingsOnly == nil {
		t := true
		ns.HoldingsOnly = &t
	}
	s.Nodes[SearchNode] = n
}

// Search returns the options of the search node.
func (s *Settings) Search() NodeSettings {
	return s.Nodes[SearchNode].Settings
}

// SummonContentTypes maps portal formats to discovery engine content types.
func (s *Settings) SummonContentTypes() map[string]string {
	out := make(map[string]string, len(s.ContentTypes))
	for key, ct := range s.ContentTypes {
		if ct.Summon != "" {
			out[key] = ct.Summon
		}
	}
	return out
}

var templateVar = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// expandTemplateVariables replaces {{NAME}} with the value of the environment
// variable NAME, or "" when unset.
// Example: pageLimit: {{LIBGATE_PAGE_LIMIT}} -> pageLimit: 25
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		if v := os.Getenv(string(name)); v != "" {
			return []byte(v)
		}
		return []byte(`""`)
	})
}
